package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/CalcBuild/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                   `json:"version"`
	ID        string                   `json:"id"`
	CreatedAt string                   `json:"created_at"`
	Config    model.AppConfig          `json:"config"`
	Projects  map[string]model.Project `json:"projects"`
}

// ExportAllData writes the config and every stored project to a single JSON
// file at the specified path.
func ExportAllData(ctx context.Context, exportPath string, config model.AppConfig, repo *Repository) error {
	projects, err := repo.All(ctx)
	if err != nil {
		return err
	}
	backup := BackupData{
		Version:   BackupVersion,
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Projects:  projects,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure RecentProjects is never nil
	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	if backup.Projects == nil {
		backup.Projects = map[string]model.Project{}
	}
	return backup, nil
}

// RestoreProjects saves every project of backup into repo, in name order,
// and returns how many were written. Existing projects of the same name are
// replaced.
func RestoreProjects(ctx context.Context, repo *Repository, backup BackupData) (int, error) {
	names := make([]string, 0, len(backup.Projects))
	for name := range backup.Projects {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		p := backup.Projects[name]
		if p.StorageKey() != name {
			p.ProjectName = name
		}
		if _, err := repo.Save(ctx, p); err != nil {
			return i, fmt.Errorf("failed to restore %q: %w", name, err)
		}
	}
	return len(names), nil
}
