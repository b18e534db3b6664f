package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thiri-win/helix/internal/cli"
	"github.com/thiri-win/helix/internal/config"
	"github.com/thiri-win/helix/internal/guid"
	"github.com/thiri-win/helix/internal/ledger"
	"github.com/thiri-win/helix/internal/model"
	"github.com/thiri-win/helix/internal/pipeline"
	"github.com/thiri-win/helix/internal/report"
	"github.com/thiri-win/helix/internal/service"
	"github.com/thiri-win/helix/internal/storage"
	"github.com/thiri-win/helix/internal/transport"
)

// resolveDirs reads the directory layout from config and creates the
// directories if needed.
func resolveDirs() (config.Dirs, error) {
	base := config.ExpandPath(viper.GetString("base_dir"))
	dirs := config.DefaultDirs(base)
	if v := viper.GetString("dirs.staging"); v != "" {
		dirs.Staging = config.ExpandPath(v)
	}
	if v := viper.GetString("dirs.archive"); v != "" {
		dirs.Archive = config.ExpandPath(v)
	}
	if v := viper.GetString("dirs.errors"); v != "" {
		dirs.Errors = config.ExpandPath(v)
	}
	if err := dirs.Ensure(); err != nil {
		return config.Dirs{}, err
	}
	return dirs, nil
}

// openLedger loads the processed-file ledger from the staging directory.
// A corrupt ledger fails fast here rather than mid-run.
func openLedger(dirs config.Dirs) (*ledger.Ledger, error) {
	ldg, err := ledger.OpenInDir(dirs.Staging)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed-file ledger: %w", err)
	}
	return ldg, nil
}

// openHistory opens the routing-history store, or returns nil when
// disabled in config.
func openHistory(ctx context.Context, dirs config.Dirs) (*storage.SQLiteStorage, error) {
	if !viper.GetBool("history.enabled") {
		return nil, nil
	}

	dbPath := config.ExpandPath(viper.GetString("history.db_path"))
	if dbPath == "" {
		dbPath = filepath.Join(filepath.Dir(dirs.Staging), "helix_history.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate history store: %w", err)
	}
	return store, nil
}

// newReporter wires the error reporter with its identifier chain: remote
// API with retry, local fallback, API failures logged alongside the error
// store.
func newReporter(dirs config.Dirs) *report.Reporter {
	failures := guid.NewFailureLog(filepath.Join(dirs.Errors, guid.FailureLogFilename))
	local := guid.NewLocalSource()

	var ids service.IdentifierSource = local
	if apiURL := viper.GetString("guid.api_url"); apiURL != "" {
		ids = guid.NewFallbackSource(guid.NewRemoteSource(apiURL), local, failures)
	}

	return report.New(dirs.Errors, ids)
}

// newSource builds the configured file source.
func newSource(ctx context.Context) (service.FileSource, error) {
	switch sourceType := viper.GetString("source.type"); sourceType {
	case "local":
		dir := config.ExpandPath(viper.GetString("source.local_dir"))
		if dir == "" {
			return nil, fmt.Errorf("source.local_dir must be set when source.type is local")
		}
		return transport.NewLocalSource(dir), nil
	case "ftp":
		src, err := transport.DialFTP(ctx, transport.FTPConfig{
			Host:      viper.GetString("ftp.host"),
			User:      viper.GetString("ftp.user"),
			Password:  viper.GetString("ftp.password"),
			RemoteDir: viper.GetString("ftp.remote_dir"),
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Connected to FTP server", "host", viper.GetString("ftp.host"))
		return src, nil
	default:
		return nil, fmt.Errorf("invalid source.type: %s", sourceType)
	}
}

// consoleSink renders pipeline progress events to stdout.
func consoleSink() service.ProgressSink {
	return func(event model.ProgressEvent) {
		fmt.Println("  " + cli.FormatEvent(event))
	}
}

// buildProcessor assembles the full pipeline for a processing or dry-run
// command.
func buildProcessor(ctx context.Context) (*pipeline.Processor, func(), error) {
	dirs, err := resolveDirs()
	if err != nil {
		return nil, nil, err
	}

	ldg, err := openLedger(dirs)
	if err != nil {
		return nil, nil, err
	}

	history, err := openHistory(ctx, dirs)
	if err != nil {
		return nil, nil, err
	}

	source, err := newSource(ctx)
	if err != nil {
		if history != nil {
			_ = history.Close()
		}
		return nil, nil, err
	}

	store := pipeline.NewLocalStore(dirs.Staging, dirs.Archive, dirs.Errors)
	sink := consoleSink()

	router := pipeline.NewRouter(store, ldg, newReporter(dirs)).WithProgress(sink)
	if history != nil {
		router.WithHistory(history)
	}

	processor := pipeline.NewProcessor(source, router, store, ldg).WithProgress(sink)

	cleanup := func() {
		if err := source.Close(); err != nil {
			slog.Debug("Failed to close file source", "error", err)
		}
		if history != nil {
			if err := history.Close(); err != nil {
				slog.Debug("Failed to close history store", "error", err)
			}
		}
	}
	return processor, cleanup, nil
}

// selectFiles narrows the candidate list to the names given on the
// command line, or returns all candidates when none were given.
func selectFiles(candidates, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return candidates, nil
	}

	available := make(map[string]bool, len(candidates))
	for _, name := range candidates {
		available[name] = true
	}

	var selected []string
	for _, name := range requested {
		if !available[name] {
			return nil, fmt.Errorf("file not found on source: %s", name)
		}
		selected = append(selected, name)
	}
	return selected, nil
}
