package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
monitoredFolder: $(GUARDIAN_TEST_ROOT)/in
backupFolder: /srv/backup
cleanupRetentionDays: 7
fileExtensionsToBackup: [".TXT", "docx", " "]
maxRetries: 0
retryDelay: 2
watch:
  mode: poll
  pollInterval: 250ms
logging:
  format: json
`

func TestParseExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("GUARDIAN_TEST_ROOT", "/data")

	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.MonitoredFolder != "/data/in" {
		t.Fatalf("monitoredFolder = %q, want /data/in", cfg.MonitoredFolder)
	}
	if got, want := cfg.FileExtensionsToBackup, []string{".txt", ".docx"}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("extensions = %v, want %v", got, want)
	}
	if cfg.Watch.PollInterval != 250*time.Millisecond {
		t.Fatalf("pollInterval = %v", cfg.Watch.PollInterval)
	}
	if cfg.Watch.RenameWindow != DefaultRenameWindow {
		t.Fatalf("renameWindow = %v, want default", cfg.Watch.RenameWindow)
	}
	if cfg.Cleanup.Schedule != DefaultSchedule {
		t.Fatalf("schedule = %q, want default", cfg.Cleanup.Schedule)
	}
	if cfg.Workers.Count != DefaultWorkers || cfg.Workers.QueueSize != DefaultQueueSize {
		t.Fatalf("workers = %+v, want defaults", cfg.Workers)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.RetryAttempts() != DefaultMaxRetries {
		t.Fatalf("retry attempts = %d, want %d", cfg.RetryAttempts(), DefaultMaxRetries)
	}
	if cfg.RetryDelayDuration() != 2*time.Second {
		t.Fatalf("retry delay = %v, want 2s", cfg.RetryDelayDuration())
	}
}

func TestRetryDelayDefaultsWhenNotPositive(t *testing.T) {
	cfg := &Config{RetryDelay: -1}
	if cfg.RetryDelayDuration() != DefaultRetryDelay {
		t.Fatalf("retry delay = %v, want %v", cfg.RetryDelayDuration(), DefaultRetryDelay)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "monitoredFolder: /in\nbackupFolder: /out\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Watch.Mode != ModeAuto {
		t.Fatalf("mode = %q, want auto", cfg.Watch.Mode)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{MonitoredFolder: "/in", BackupFolder: "/out"}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing monitored folder", func(c *Config) { c.MonitoredFolder = "  " }},
		{"missing backup folder", func(c *Config) { c.BackupFolder = "" }},
		{"same folders", func(c *Config) { c.BackupFolder = "/in/" }},
		{"backup inside recursive root", func(c *Config) { c.Watch.Recursive = true; c.BackupFolder = "/in/bak" }},
		{"journal in monitored root", func(c *Config) { c.BackupLogPath = "/in/backups.txt" }},
		{"log file in monitored root", func(c *Config) { c.LogFilePath = "/in/guardian.log" }},
		{"journal below recursive root", func(c *Config) { c.Watch.Recursive = true; c.BackupLogPath = "/in/logs/backups.txt" }},
		{"negative retention", func(c *Config) { c.CleanupRetentionDays = -1 }},
		{"unknown mode", func(c *Config) { c.Watch.Mode = "inotify" }},
		{"bad schedule", func(c *Config) { c.Cleanup.Schedule = "every day" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("baseline config invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestBackupBesideRecursiveRootIsValid(t *testing.T) {
	c := &Config{MonitoredFolder: "/data/in", BackupFolder: "/data/inbox-backup", Watch: WatchConfig{Recursive: true}}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestJournalOutsideWatchIsValid(t *testing.T) {
	c := &Config{
		MonitoredFolder: "/data/in",
		BackupFolder:    "/data/out",
		BackupLogPath:   "/data/in/logs/backups.txt",
		LogFilePath:     "/var/log/guardian.log",
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("journal in an unwatched subfolder: %v", err)
	}
}
