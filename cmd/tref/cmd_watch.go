package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

func (a *app) newWatchCommand() *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Re-check TREF documents whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, args, dialect)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "simple", "node content dialect: simple or kv")
	return cmd
}

// watch checks every file once, then again after each change until ctx is
// done. Directories are watched rather than files so that editors which
// replace the file on save keep being tracked.
func (a *app) watch(ctx context.Context, cmd *cobra.Command, files []string, dialect string) error {
	log := a.logger(cmd)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	tracked := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		tracked[abs] = f
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	for _, f := range files {
		a.check(cmd, f, dialect)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, ok := tracked[filepath.Clean(ev.Name)]
			if !ok || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			log.Debug("change", "file", name, "op", ev.Op.String())
			pending[name] = true
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-timer.C:
			for name := range pending {
				a.check(cmd, name, dialect)
			}
			clear(pending)
		}
	}
}
