package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1"

// Backup is the file written by ExportBackup.
type Backup struct {
	Version   string `json:"version"`
	CreatedAt string `json:"createdAt"`
	Config    Config `json:"config"`
}

// ExportBackup writes cfg to path with a version and timestamp.
func ExportBackup(path string, cfg Config) error {
	backup := Backup{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    cfg,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportBackup reads a backup file. Settings missing from the file keep
// their defaults and the result is validated.
func ImportBackup(path string) (Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Backup{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := Backup{Config: Default()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return Backup{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return Backup{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentProducts == nil {
		backup.Config.RecentProducts = []string{}
	}
	if err := backup.Config.Validate(); err != nil {
		return Backup{}, fmt.Errorf("invalid backup file: %w", err)
	}
	return backup, nil
}
