package model

// Storage backends accepted in StoreConfig.Backend.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultStorageKey is the key the project map is stored under.
const DefaultStorageKey = "calcbuild_projects"

// maxRecentProjects bounds AppConfig.RecentProjects.
const maxRecentProjects = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Parameters applied to new projects
	Defaults Parameters `json:"defaults" mapstructure:"defaults"`

	Store StoreConfig `json:"store" mapstructure:"store"`
	Log   LogConfig   `json:"log" mapstructure:"log"`

	// Application preferences
	RecentProjects []string `json:"recent_projects" mapstructure:"recent_projects"`
	Theme          string   `json:"theme" mapstructure:"theme" validate:"oneof=light dark system"`
}

// StoreConfig selects and configures the key-value backend of the project store.
type StoreConfig struct {
	Backend string `json:"backend" mapstructure:"backend" validate:"oneof=file memory redis postgres"`
	Key     string `json:"key" mapstructure:"key" validate:"required"`

	// file backend; empty means the default config directory
	Dir string `json:"dir" mapstructure:"dir"`

	// redis backend
	RedisAddr     string `json:"redis_addr" mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `json:"redis_password" mapstructure:"redis_password"`
	RedisDB       int    `json:"redis_db" mapstructure:"redis_db" validate:"gte=0"`

	// postgres backend
	PostgresDSN   string `json:"postgres_dsn" mapstructure:"postgres_dsn" validate:"required_if=Backend postgres"`
	PostgresTable string `json:"postgres_table" mapstructure:"postgres_table"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format" validate:"oneof=console json"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching DefaultParameters().
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Defaults: DefaultParameters(),
		Store: StoreConfig{
			Backend:       BackendFile,
			Key:           DefaultStorageKey,
			RedisAddr:     "localhost:6379",
			PostgresTable: "calcbuild_kv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		RecentProjects: []string{},
		Theme:          "system",
	}
}

// ApplyToProject copies the default parameters into a project.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToProject(p *Project) {
	p.Parameters = c.Defaults
}

// AddRecentProject moves name to the front of the recent list, keeping at
// most ten entries.
func (c *AppConfig) AddRecentProject(name string) {
	recent := []string{name}
	for _, n := range c.RecentProjects {
		if n != name {
			recent = append(recent, n)
		}
	}
	if len(recent) > maxRecentProjects {
		recent = recent[:maxRecentProjects]
	}
	c.RecentProjects = recent
}
