package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/primebench/internal/activitylog"
	"github.com/bft-labs/primebench/internal/cliconfig"
	"github.com/bft-labs/primebench/pkg/log"
)

const helpDescription = `
Find the primes in a range twice, once in a single goroutine and once split
across parallel workers, then compare the results and report both timings.

Configuration is read from .env, $HOME/.primebench/config.toml, PRIMEBENCH_*
environment variables and flags, in increasing order of precedence.

Blob commands accept any gocloud.dev bucket URL: azblob://container (with
AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY set), file:///dir or mem://.
`

var exampleUsage = strings.TrimSpace(`
  primebench --start 2 --end 1000000 --workers 8
  primebench run --bucket-url azblob://results --publish
  primebench upload --bucket-url azblob://raw --file ./tourism_dataset.csv
  primebench download --bucket-url azblob://raw --key tourism_dataset.csv --out ./data.csv
  primebench activity-log --subscription $SUBSCRIPTION_ID --days 1 --output activity_logs.csv
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app carries the configuration shared by every subcommand.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	envFile string
	logger  *log.ZerologAdapter

	// activityLogs opens the event source for the activity-log command.
	activityLogs func(cfg cliconfig.Config) (activitylog.Pager, error)
}

func newApp() *app {
	return &app{
		cfg:          cliconfig.DefaultConfig(),
		logger:       log.NewZerologAdapter(zerolog.InfoLevel),
		activityLogs: azureActivityLogs,
	}
}

func azureActivityLogs(cfg cliconfig.Config) (activitylog.Pager, error) {
	c, err := activitylog.NewDefaultClient(cfg.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return c.Since(time.Now(), cfg.ActivityLogDays, cfg.ResourceID), nil
}

// load applies .env, the config file and the environment beneath the flags
// that were set on cmd, then validates the shared settings.
func (a *app) load(cmd *cobra.Command) error {
	if err := cliconfig.LoadDotEnv(a.envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	} else if a.cfgPath != "" {
		return fmt.Errorf("load config: %s does not exist", a.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, _ := log.ParseLevel(a.cfg.LogLevel)
	a.logger = log.NewZerologAdapterWithLogger(a.logger.Logger().Level(level))
	a.logger.Debug("configuration", log.Any("config", a.cfg))
	return nil
}

func newRootCmd() *cobra.Command {
	return newAppCmd(newApp())
}

func newAppCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "primebench",
		Short:         "Benchmark sequential against parallel prime search",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBenchmark(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.primebench/config.toml)")
	pf.StringVar(&a.envFile, "env-file", "", "path to .env file (default: ./.env)")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&a.cfg.BucketURL, "bucket-url", a.cfg.BucketURL, "blob bucket URL, e.g. azblob://container")
	pf.StringVar(&a.cfg.Prefix, "prefix", a.cfg.Prefix, "directory inside the bucket for all blob names")

	addBenchmarkFlags(root.Flags(), &a.cfg)

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBenchmark(cmd)
		},
	}
	addBenchmarkFlags(run.Flags(), &a.cfg)

	upload := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local file to the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUpload(cmd)
		},
	}
	upload.Flags().StringVar(&a.cfg.UploadFile, "file", a.cfg.UploadFile, "local file to upload")
	upload.Flags().StringVar(&a.cfg.UploadKey, "key", a.cfg.UploadKey, "blob name (default: base name of --file)")
	upload.Flags().BoolVar(&a.cfg.Watch, "watch", a.cfg.Watch, "keep running and upload again whenever the file changes")

	download := &cobra.Command{
		Use:   "download",
		Short: "Download a blob to a local file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDownload(cmd)
		},
	}
	download.Flags().StringVar(&a.cfg.DownloadKey, "key", a.cfg.DownloadKey, "blob name to download")
	download.Flags().StringVar(&a.cfg.DownloadPath, "out", a.cfg.DownloadPath, "local destination (default: base name of --key)")

	activityLog := &cobra.Command{
		Use:   "activity-log",
		Short: "Export recent Azure activity log events to CSV",
		Long: "Export the activity log events of the last --days days to a CSV file, " +
			"optionally restricted to one resource. Credentials are resolved by " +
			"azidentity.DefaultAzureCredential.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runActivityLog(cmd)
		},
	}
	af := activityLog.Flags()
	af.StringVar(&a.cfg.SubscriptionID, "subscription", a.cfg.SubscriptionID, "Azure subscription ID")
	af.StringVar(&a.cfg.ResourceID, "resource-id", a.cfg.ResourceID, "only export events for this resource ID")
	af.IntVar(&a.cfg.ActivityLogDays, "days", a.cfg.ActivityLogDays, "number of days back from now to export")
	af.StringVar(&a.cfg.ActivityLogPath, "output", a.cfg.ActivityLogPath, "CSV file to write")
	af.BoolVar(&a.cfg.ActivityLogUpload, "upload", a.cfg.ActivityLogUpload, "also upload the CSV to the bucket")

	root.AddCommand(run, upload, download, activityLog)
	return root
}

func addBenchmarkFlags(fs *pflag.FlagSet, cfg *cliconfig.Config) {
	fs.Int64Var(&cfg.Start, "start", cfg.Start, "first integer of the range (inclusive)")
	fs.Int64Var(&cfg.End, "end", cfg.End, "end of the range (exclusive)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of chunks and parallel workers")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "deadline for the parallel search (0 disables)")
	fs.BoolVar(&cfg.Publish, "publish", cfg.Publish, "upload the TOML report to the bucket")
	fs.StringVar(&cfg.ReportName, "report-name", cfg.ReportName, "blob name of the published report")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		log.NewZerologAdapter(zerolog.InfoLevel).Error("primebench", log.Err(err))
		stop()
		os.Exit(1)
	}
}
