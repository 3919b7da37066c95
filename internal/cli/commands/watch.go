package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-parse a SQL file every time it is saved",
		Long: `Parse a SQL file, print its report, and print it again whenever the file
is written. Bursts of writes are collapsed by the debounce interval.

Stop with Ctrl+C.`,
		Example: `  # Watch a query while editing it
  sqlpath watch query.sql

  # Slower debounce for editors that write in several steps
  sqlpath watch query.sql --debounce 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0])
		},
	}

	cmd.Flags().Duration("debounce", 0, "Wait this long after the last write before re-parsing")

	return cmd
}

func runWatch(cmd *cobra.Command, path string) error {
	cc := NewCommandContext(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wp := &watchPrinter{cc: cc, path: path}
	wp.print("")
	cc.Renderer.Muted(fmt.Sprintf("watching %s (Ctrl+C to stop)", path))

	return watchSQL(ctx, path, cc.Cfg.Watch.Debounce, cc.Logger, func() {
		wp.print("changed at " + time.Now().Format(time.TimeOnly))
	})
}

// watchPrinter re-parses and prints one file. Debounce timers may fire
// concurrently, so each banner and its report are written under one lock.
type watchPrinter struct {
	mu   sync.Mutex
	cc   *CommandContext
	path string
}

// print writes banner, when set, followed by a fresh report.
func (w *watchPrinter) print(banner string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r := w.cc.Renderer
	if banner != "" {
		r.Println()
		r.Muted(banner)
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		r.Error(err.Error())
		return
	}
	stmt, err := w.cc.Parse(w.path, string(data))
	if err != nil {
		r.Error(err.Error())
		return
	}
	if err := renderReport(r, NewStatementReport(w.path, stmt, w.cc.LineageOptions())); err != nil {
		r.Error(err.Error())
	}
}

// watchSQL calls onChange after each burst of writes to path, until ctx is
// done. The parent directory is watched so that editors replacing the file
// on save are still seen.
func watchSQL(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	// Debounce timer
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				logger.Debug("file changed, re-parsing", "file", event.Name)
				onChange()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
