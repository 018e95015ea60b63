package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExportAndImportBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "backup.json")

	cfg := Default()
	cfg.APIBaseURL = "http://lab.example:3333/"
	cfg.Timeout = Duration(5 * time.Second)
	cfg.Theme = "dark"
	cfg.AddRecentProduct("p1")

	if err := ExportBackup(path, cfg); err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}

	backup, err := ImportBackup(path)
	if err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("expected APIBaseURL=%s, got %s", cfg.APIBaseURL, backup.Config.APIBaseURL)
	}
	if backup.Config.Timeout != cfg.Timeout {
		t.Errorf("expected Timeout=5s, got %s", time.Duration(backup.Config.Timeout))
	}
	if len(backup.Config.RecentProducts) != 1 || backup.Config.RecentProducts[0] != "p1" {
		t.Errorf("unexpected recent products %v", backup.Config.RecentProducts)
	}
}

func TestImportBackupKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"version":"1","config":{"theme":"light"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportBackup(path)
	if err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}
	if backup.Config.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", backup.Config.Theme)
	}
	if backup.Config.APIBaseURL != Default().APIBaseURL {
		t.Errorf("expected default API URL, got %s", backup.Config.APIBaseURL)
	}
	if backup.Config.RecentProducts == nil {
		t.Error("recent products should never be nil")
	}
}

func TestImportBackupMissingFile(t *testing.T) {
	if _, err := ImportBackup(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportBackupInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad.json":       "{not json}",
		"noversion.json": `{"config":{}}`,
		"badtheme.json":  `{"version":"1","config":{"theme":"neon"}}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ImportBackup(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
