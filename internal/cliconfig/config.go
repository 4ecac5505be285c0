package cliconfig

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/bft-labs/primebench/internal/domain"
	"github.com/bft-labs/primebench/pkg/log"
)

const (
	DefaultStart           int64 = 2
	DefaultEnd             int64 = 1000000
	DefaultReportName            = "primebench-report.toml"
	DefaultActivityLogPath       = "activity_logs.csv"
	DefaultActivityLogDays       = 1
)

// Config holds CLI configuration for primebench.
type Config struct {
	Start   int64
	End     int64
	Workers int
	Timeout time.Duration

	LogLevel string

	BucketURL  string
	Prefix     string
	ReportName string
	Publish    bool

	UploadFile string
	UploadKey  string
	Watch      bool

	DownloadKey  string
	DownloadPath string

	SubscriptionID    string
	ResourceID        string
	ActivityLogDays   int
	ActivityLogPath   string
	ActivityLogUpload bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Start:      DefaultStart,
		End:        DefaultEnd,
		Workers:    runtime.NumCPU(),
		LogLevel:   "info",
		ReportName: DefaultReportName,

		ActivityLogDays: DefaultActivityLogDays,
		ActivityLogPath: DefaultActivityLogPath,
	}
}

// Range returns the configured search range.
func (c *Config) Range() (domain.Range, error) {
	return domain.NewRange(c.Start, c.End)
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", domain.ErrInvalidWorkerCount, c.Workers)
	}
	if _, err := c.Range(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", domain.ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	if c.Publish && c.BucketURL == "" {
		return fmt.Errorf("%w: publish requires bucket-url", domain.ErrInvalidConfig)
	}
	if c.ReportName == "" {
		c.ReportName = DefaultReportName
	}
	return nil
}

// ValidateUpload checks the upload settings and derives the blob name from
// the file name when none is given.
func (c *Config) ValidateUpload() error {
	if c.BucketURL == "" {
		return fmt.Errorf("%w: bucket-url is required", domain.ErrInvalidConfig)
	}
	if c.UploadFile == "" {
		return fmt.Errorf("%w: file is required", domain.ErrInvalidConfig)
	}
	if c.UploadKey == "" {
		c.UploadKey = filepath.Base(c.UploadFile)
	}
	return nil
}

// ValidateDownload checks the download settings. The local path defaults to
// the base name of the blob.
func (c *Config) ValidateDownload() error {
	if c.BucketURL == "" {
		return fmt.Errorf("%w: bucket-url is required", domain.ErrInvalidConfig)
	}
	if c.DownloadKey == "" {
		return fmt.Errorf("%w: key is required", domain.ErrInvalidConfig)
	}
	if c.DownloadPath == "" {
		c.DownloadPath = filepath.Base(c.DownloadKey)
	}
	return nil
}

// ValidateActivityLog checks the activity log export settings. The output
// path defaults to DefaultActivityLogPath.
func (c *Config) ValidateActivityLog() error {
	if c.SubscriptionID == "" {
		return fmt.Errorf("%w: subscription is required", domain.ErrInvalidConfig)
	}
	if c.ActivityLogDays <= 0 {
		return fmt.Errorf("%w: days must be positive, got %d", domain.ErrInvalidConfig, c.ActivityLogDays)
	}
	if c.ActivityLogPath == "" {
		c.ActivityLogPath = DefaultActivityLogPath
	}
	if c.ActivityLogUpload && c.BucketURL == "" {
		return fmt.Errorf("%w: upload requires bucket-url", domain.ErrInvalidConfig)
	}
	return nil
}

// configSetter applies values from lower-precedence sources, skipping any
// setting whose flag was given explicitly on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets dst from a present value, including zero and negatives, so
// that validation can reject them.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setInt64Ptr(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
