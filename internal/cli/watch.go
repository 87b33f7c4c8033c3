package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"qdiagx/internal/expand"
	"qdiagx/internal/naming"
)

// watchExpand runs a pass now and again whenever the input file is written,
// until the context is cancelled or the process is interrupted.
func watchExpand(ctx context.Context, xopts expand.Options, formatter *OutputFormatter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start file watcher", err)
	}
	defer watcher.Close()

	// The directory is watched so editors that replace the file are seen.
	input := naming.EnglishPath(xopts.Prefix, xopts.NumBits)
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return WrapExitError(ExitCommandError, "failed to watch input directory", err)
	}
	formatter.VerboseLog("watching %s", input)

	run := func() error { return expandOnce(xopts, formatter) }
	return watchLoop(ctx, watcher.Events, watcher.Errors, input, run, xopts.Logger)
}

// watchLoop calls run once, then again for every write or create event on
// target. Failed runs are logged and do not stop the loop. It returns nil
// when ctx is done or either channel is closed.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error,
	target string, run func() error, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	target = filepath.Clean(target)

	if err := run(); err != nil {
		logger.Warn("pass failed", zap.Error(err))
	}
	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped")
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Info("input changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()),
			)
			if err := run(); err != nil {
				logger.Warn("pass failed", zap.Error(err))
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Error("file watcher error", zap.Error(err))
		}
	}
}
