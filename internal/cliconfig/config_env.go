package cliconfig

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// An empty path means ".env". A missing file is not an error. Variables that
// are already set keep their values.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnvConfig applies PRIMEBENCH_* environment variables, skipping any
// setting whose flag was set explicitly.
//
// The variable names used by the Azure helper scripts are honored as
// fallbacks: AZURE_CONTAINER_NAME or RAW_CONTAINER_NAME for the bucket,
// DIRECTORY_NAME for the prefix, AZURE_FILE_PATH for the upload file, and
// BLOB_NAME and LOCAL_FILE_PATH for downloads, SUBSCRIPTION_ID and
// RESOURCE_ID for the activity log export.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setInt64FromString("start", os.Getenv("PRIMEBENCH_START"), &cfg.Start); err != nil {
		return err
	}
	if err := s.setInt64FromString("end", os.Getenv("PRIMEBENCH_END"), &cfg.End); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("PRIMEBENCH_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("PRIMEBENCH_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	s.setString("log-level", os.Getenv("PRIMEBENCH_LOG_LEVEL"), &cfg.LogLevel)

	s.setString("bucket-url", os.Getenv("PRIMEBENCH_BUCKET_URL"), &cfg.BucketURL)
	s.setString("prefix", os.Getenv("PRIMEBENCH_PREFIX"), &cfg.Prefix)
	s.setString("report-name", os.Getenv("PRIMEBENCH_REPORT_NAME"), &cfg.ReportName)
	s.setBoolFromString("publish", os.Getenv("PRIMEBENCH_PUBLISH"), &cfg.Publish)

	s.setString("file", os.Getenv("PRIMEBENCH_UPLOAD_FILE"), &cfg.UploadFile)
	s.setString("key", os.Getenv("PRIMEBENCH_UPLOAD_KEY"), &cfg.UploadKey)
	s.setBoolFromString("watch", os.Getenv("PRIMEBENCH_WATCH"), &cfg.Watch)

	s.setString("key", os.Getenv("PRIMEBENCH_DOWNLOAD_KEY"), &cfg.DownloadKey)
	s.setString("out", os.Getenv("PRIMEBENCH_DOWNLOAD_PATH"), &cfg.DownloadPath)

	s.setString("subscription", os.Getenv("PRIMEBENCH_SUBSCRIPTION_ID"), &cfg.SubscriptionID)
	s.setString("resource-id", os.Getenv("PRIMEBENCH_RESOURCE_ID"), &cfg.ResourceID)
	if err := s.setIntFromString("days", os.Getenv("PRIMEBENCH_ACTIVITY_LOG_DAYS"), &cfg.ActivityLogDays); err != nil {
		return err
	}
	s.setString("output", os.Getenv("PRIMEBENCH_ACTIVITY_LOG_PATH"), &cfg.ActivityLogPath)
	s.setBoolFromString("upload", os.Getenv("PRIMEBENCH_ACTIVITY_LOG_UPLOAD"), &cfg.ActivityLogUpload)

	if cfg.BucketURL == "" {
		if c := firstEnv("AZURE_CONTAINER_NAME", "RAW_CONTAINER_NAME"); c != "" {
			s.setString("bucket-url", "azblob://"+c, &cfg.BucketURL)
		}
	}
	fallback(s, "prefix", "DIRECTORY_NAME", &cfg.Prefix)
	fallback(s, "file", "AZURE_FILE_PATH", &cfg.UploadFile)
	fallback(s, "key", "BLOB_NAME", &cfg.DownloadKey)
	fallback(s, "out", "LOCAL_FILE_PATH", &cfg.DownloadPath)
	fallback(s, "subscription", "SUBSCRIPTION_ID", &cfg.SubscriptionID)
	fallback(s, "resource-id", "RESOURCE_ID", &cfg.ResourceID)

	return nil
}

// fallback sets dst from env only when nothing else has set it.
func fallback(s *configSetter, flag, env string, dst *string) {
	if *dst != "" {
		return
	}
	s.setString(flag, os.Getenv(env), dst)
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
