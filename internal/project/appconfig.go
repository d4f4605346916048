package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override config keys, e.g.
// CALCBUILD_STORE_BACKEND=redis.
const EnvPrefix = "CALCBUILD"

var validate = validator.New()

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.calcbuild/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".calcbuild")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := ValidateAppConfig(config); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path, then applies
// CALCBUILD_* environment overrides.
// If the file does not exist, it starts from DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	v := viper.New()
	if err := setDefaults(v, model.DefaultAppConfig()); err != nil {
		return model.AppConfig{}, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return model.AppConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return model.AppConfig{}, err
	}

	var config model.AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	// Ensure RecentProjects is never nil
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	if err := ValidateAppConfig(config); err != nil {
		return model.AppConfig{}, err
	}
	return config, nil
}

// ValidateAppConfig checks enumerations and backend-specific required fields.
func ValidateAppConfig(config model.AppConfig) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults registers every field of defaults with viper so that file
// values and environment variables are both resolved against a known key.
func setDefaults(v *viper.Viper, defaults model.AppConfig) error {
	data, err := json.Marshal(defaults)
	if err != nil {
		return err
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return err
	}
	registerDefaults(v, "", tree)
	return nil
}

func registerDefaults(v *viper.Viper, prefix string, tree map[string]interface{}) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]interface{}); ok {
			registerDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, val)
	}
}
