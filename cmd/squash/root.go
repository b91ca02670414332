package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/squash"
	"github.com/discochess/squash/internal/progress"
	"github.com/discochess/squash/internal/stats/prometheus"
	"github.com/discochess/squash/internal/store/diskstore"
	"github.com/discochess/squash/internal/store/router"
)

var (
	// Global flags.
	verbose     bool
	quiet       bool
	metricsFile string
	tempDir     string
)

var rootCmd = &cobra.Command{
	Use:   "squash",
	Short: "Compress and decompress files with gzip, zstd, lz4 or zip",
	Long: `Squash compresses and decompresses a single file through one of
several codecs, streaming it in 8 KiB chunks and showing progress as it goes.

Inputs and outputs may be local paths, gs://bucket/key or s3://bucket/key.

Examples:
  # Compress with gzip (writes report.csv.gz)
  squash compress report.csv report.csv

  # Compress with zstd at level 19
  squash compress -f zstd -c 19 access.log access.log

  # Decompress an lz4 file
  squash decompress -f lz4 access.log.lz4 access.log`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "do not show progress")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")
	rootCmd.PersistentFlags().StringVar(&tempDir, "temp-dir", "", "directory for temporary files (default system temp)")
}

// session bundles a client with the pieces the commands report on after it
// finishes.
type session struct {
	client    *squash.Client
	collector *prometheus.Collector
	logger    *zap.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	collector := prometheus.New(promclient.NewRegistry())

	opts := []squash.Option{
		squash.WithStore(router.Default(diskstore.New(), tempDir)),
		squash.WithStats(collector),
		squash.WithLogger(logger.Named("squash")),
		squash.WithTempDir(tempDir),
	}
	if fn := progressFunc(cmd); fn != nil {
		opts = append(opts, squash.WithProgress(fn))
	}

	client, err := squash.New(opts...)
	if err != nil {
		return nil, err
	}
	return &session{client: client, collector: collector, logger: logger}, nil
}

// Close closes the client, writes the metrics file if requested and flushes
// the logger. Metrics are written even when the operation failed.
func (s *session) Close() error {
	err := s.client.Close()
	if metricsFile != "" {
		if werr := s.collector.WriteTextfile(metricsFile); werr != nil {
			err = errors.Join(err, fmt.Errorf("writing metrics: %w", werr))
		}
	}
	_ = s.logger.Sync()
	return err
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// progressFunc picks a renderer for the command's error stream: a bar on a
// terminal, a status line otherwise, nothing with --quiet.
func progressFunc(cmd *cobra.Command) progress.Func {
	if quiet {
		return nil
	}
	out := cmd.ErrOrStderr()
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return progress.NewBar(out).Update
	}
	return progress.TextFunc(out)
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(cmd.Context())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
