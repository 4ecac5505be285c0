package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bft-labs/primebench/internal/activitylog"
	"github.com/bft-labs/primebench/internal/adapters/blobstore"
	"github.com/bft-labs/primebench/internal/bench"
	"github.com/bft-labs/primebench/internal/executor"
	"github.com/bft-labs/primebench/internal/watch"
	"github.com/bft-labs/primebench/pkg/log"
)

func (a *app) runBenchmark(cmd *cobra.Command) error {
	if err := a.load(cmd); err != nil {
		return err
	}
	ctx := cmd.Context()
	r, err := a.cfg.Range()
	if err != nil {
		return err
	}

	exec := executor.New(
		executor.WithTimeout(a.cfg.Timeout),
		executor.WithLogger(a.logger),
	)
	opts := []bench.Option{
		bench.WithLogger(a.logger),
		bench.WithExecutor(exec),
	}
	var reportKey string
	if a.cfg.Publish {
		store, err := blobstore.Open(ctx, a.cfg.BucketURL, a.cfg.Prefix)
		if err != nil {
			return err
		}
		defer store.Close()
		reportKey = store.Key(a.cfg.ReportName)
		opts = append(opts, bench.WithPublisher(blobstore.NewPublisher(store, a.cfg.ReportName)))
	}

	rep, err := bench.NewRunner(opts...).Run(ctx, bench.Params{Range: r, Workers: a.cfg.Workers})
	if err != nil {
		return err
	}
	if reportKey != "" {
		a.logger.Info("report published",
			log.String("bucket", a.cfg.BucketURL),
			log.String("blob", reportKey),
		)
	}
	return rep.WriteText(cmd.OutOrStdout())
}

func (a *app) runUpload(cmd *cobra.Command) error {
	if err := a.load(cmd); err != nil {
		return err
	}
	if err := a.cfg.ValidateUpload(); err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := blobstore.Open(ctx, a.cfg.BucketURL, a.cfg.Prefix)
	if err != nil {
		return err
	}
	defer store.Close()

	upload := func(ctx context.Context) error {
		n, err := store.UploadFile(ctx, a.cfg.UploadKey, a.cfg.UploadFile)
		if err != nil {
			return err
		}
		a.logger.Info("uploaded",
			log.String("file", a.cfg.UploadFile),
			log.String("blob", store.Key(a.cfg.UploadKey)),
			log.Int64("bytes", n),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "File %s uploaded to %s as blob %s.\n", a.cfg.UploadFile, a.cfg.BucketURL, store.Key(a.cfg.UploadKey))
		return nil
	}

	if err := upload(ctx); err != nil {
		return err
	}
	if !a.cfg.Watch {
		return nil
	}

	w := watch.NewFileWatcher(a.cfg.UploadFile, upload, watch.WithLogger(a.logger))
	return w.Run(ctx)
}

func (a *app) runDownload(cmd *cobra.Command) error {
	if err := a.load(cmd); err != nil {
		return err
	}
	if err := a.cfg.ValidateDownload(); err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := blobstore.Open(ctx, a.cfg.BucketURL, a.cfg.Prefix)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.DownloadFile(ctx, a.cfg.DownloadKey, a.cfg.DownloadPath)
	if err != nil {
		return err
	}
	a.logger.Info("downloaded",
		log.String("blob", store.Key(a.cfg.DownloadKey)),
		log.String("file", a.cfg.DownloadPath),
		log.Int64("bytes", n),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Blob downloaded to %s\n", a.cfg.DownloadPath)
	return nil
}

func (a *app) runActivityLog(cmd *cobra.Command) error {
	if err := a.load(cmd); err != nil {
		return err
	}
	if err := a.cfg.ValidateActivityLog(); err != nil {
		return err
	}
	ctx := cmd.Context()

	pager, err := a.activityLogs(a.cfg)
	if err != nil {
		return err
	}
	n, err := activitylog.ExportFile(ctx, pager, a.cfg.ActivityLogPath)
	if err != nil {
		return err
	}
	a.logger.Info("activity logs exported",
		log.String("subscription", a.cfg.SubscriptionID),
		log.Int("days", a.cfg.ActivityLogDays),
		log.Int("events", n),
		log.String("file", a.cfg.ActivityLogPath),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Activity logs saved to %s\n", a.cfg.ActivityLogPath)

	if !a.cfg.ActivityLogUpload {
		return nil
	}
	store, err := blobstore.Open(ctx, a.cfg.BucketURL, a.cfg.Prefix)
	if err != nil {
		return err
	}
	defer store.Close()

	name := filepath.Base(a.cfg.ActivityLogPath)
	if _, err := store.UploadFile(ctx, name, a.cfg.ActivityLogPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "File %s uploaded to %s as blob %s.\n", a.cfg.ActivityLogPath, a.cfg.BucketURL, store.Key(name))
	return nil
}
