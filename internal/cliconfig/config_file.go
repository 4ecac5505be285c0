package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the TOML layout of the config file. Pointers distinguish an
// absent key from an explicit zero.
type FileConfig struct {
	Start    *int64 `toml:"start"`
	End      *int64 `toml:"end"`
	Workers  *int   `toml:"workers"`
	Timeout  string `toml:"timeout"`
	LogLevel string `toml:"log_level"`

	Storage  StorageFileConfig  `toml:"storage"`
	Upload   UploadFileConfig   `toml:"upload"`
	Download DownloadFileConfig `toml:"download"`

	ActivityLog ActivityLogFileConfig `toml:"activity_log"`
}

type StorageFileConfig struct {
	BucketURL  string `toml:"bucket_url"`
	Prefix     string `toml:"prefix"`
	ReportName string `toml:"report_name"`
	Publish    *bool  `toml:"publish"`
}

type UploadFileConfig struct {
	File  string `toml:"file"`
	Key   string `toml:"key"`
	Watch *bool  `toml:"watch"`
}

type DownloadFileConfig struct {
	Key  string `toml:"key"`
	Path string `toml:"path"`
}

type ActivityLogFileConfig struct {
	SubscriptionID string `toml:"subscription_id"`
	ResourceID     string `toml:"resource_id"`
	Days           *int   `toml:"days"`
	Path           string `toml:"path"`
	Upload         *bool  `toml:"upload"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.primebench/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".primebench", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies file settings into cfg unless the matching flag was
// set explicitly.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt64Ptr("start", fc.Start, &cfg.Start)
	s.setInt64Ptr("end", fc.End, &cfg.End)
	s.setIntPtr("workers", fc.Workers, &cfg.Workers)
	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setString("bucket-url", fc.Storage.BucketURL, &cfg.BucketURL)
	s.setString("prefix", fc.Storage.Prefix, &cfg.Prefix)
	s.setString("report-name", fc.Storage.ReportName, &cfg.ReportName)
	s.setBool("publish", fc.Storage.Publish, &cfg.Publish)

	s.setString("file", fc.Upload.File, &cfg.UploadFile)
	s.setString("key", fc.Upload.Key, &cfg.UploadKey)
	s.setBool("watch", fc.Upload.Watch, &cfg.Watch)

	s.setString("key", fc.Download.Key, &cfg.DownloadKey)
	s.setString("out", fc.Download.Path, &cfg.DownloadPath)

	s.setString("subscription", fc.ActivityLog.SubscriptionID, &cfg.SubscriptionID)
	s.setString("resource-id", fc.ActivityLog.ResourceID, &cfg.ResourceID)
	s.setIntPtr("days", fc.ActivityLog.Days, &cfg.ActivityLogDays)
	s.setString("output", fc.ActivityLog.Path, &cfg.ActivityLogPath)
	s.setBool("upload", fc.ActivityLog.Upload, &cfg.ActivityLogUpload)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
