package config

import "time"

// Config is the full guardian configuration. It is loaded once per pipeline
// start and treated as read-only afterwards.
type Config struct {
	MonitoredFolder        string   `yaml:"monitoredFolder"`
	BackupFolder           string   `yaml:"backupFolder"`
	LogFilePath            string   `yaml:"logFilePath"`
	BackupLogPath          string   `yaml:"backupLogPath"`
	CleanupRetentionDays   int      `yaml:"cleanupRetentionDays"`
	FileExtensionsToBackup []string `yaml:"fileExtensionsToBackup"`
	MaxRetries             int      `yaml:"maxRetries"`
	RetryDelay             int      `yaml:"retryDelay"` // seconds

	Watch   WatchConfig   `yaml:"watch"`
	Cleanup CleanupConfig `yaml:"cleanup"`
	Workers WorkersConfig `yaml:"workers"`
	Logging LoggingConfig `yaml:"logging"`
}

type WatchConfig struct {
	Mode         string        `yaml:"mode"`         // "auto", "poll", "fsnotify"
	Recursive    bool          `yaml:"recursive"`    // include subdirectories
	PollInterval time.Duration `yaml:"pollInterval"` // e.g. 5s
	RenameWindow time.Duration `yaml:"renameWindow"` // e.g. 100ms
}

type CleanupConfig struct {
	Schedule string `yaml:"schedule"` // cron spec, e.g. "@every 24h"
}

type WorkersConfig struct {
	Count     int `yaml:"count"`
	QueueSize int `yaml:"queueSize"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text"
}

const (
	ModeAuto     = "auto"
	ModePoll     = "poll"
	ModeFsnotify = "fsnotify"

	DefaultMaxRetries   = 3
	DefaultRetryDelay   = 5 * time.Second
	DefaultSchedule     = "@every 24h"
	DefaultPollInterval = 5 * time.Second
	DefaultRenameWindow = 100 * time.Millisecond
	DefaultWorkers      = 4
	DefaultQueueSize    = 256
)

// RetryDelayDuration converts the configured delay in seconds, falling back
// to DefaultRetryDelay when it is not positive.
func (c *Config) RetryDelayDuration() time.Duration {
	if c.RetryDelay <= 0 {
		return DefaultRetryDelay
	}
	return time.Duration(c.RetryDelay) * time.Second
}

// RetryAttempts returns MaxRetries, or DefaultMaxRetries when not positive.
func (c *Config) RetryAttempts() int {
	if c.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return c.MaxRetries
}
