package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/issuegraph/pkg/cache"
)

// defaultDebounce batches the bursts of events editors emit per save.
const defaultDebounce = 300 * time.Millisecond

func (c *CLI) watchCommand() *cobra.Command {
	var (
		output   string
		format   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [snapshot]",
		Short: "Rebuild the diagram whenever the snapshot file changes",
		Long: `Rebuild the diagram whenever the snapshot file changes.

Each change counts as a data change: the diagram is rebuilt from scratch with
the saved positions, and the viewport keeps its state unless a reload was
requested. With --output the diagram is exported after every rebuild.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := validateFormats([]string{format}); err != nil {
					return err
				}
			}
			return c.runWatch(cmd.Context(), args[0], output, format, debounce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "export the diagram to this file after each rebuild")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "export format: svg, dot, json, cytoscape")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before rebuilding")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input, output, format string, debounce time.Duration) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	// Saves that leave the diagram unchanged skip Graphviz.
	svgCache := cache.NewMemory(8)
	rebuild := func() {
		snap, err := c.readSnapshot(input)
		if err != nil {
			c.Logger.Error("reading snapshot", "file", input, "err", err)
			return
		}
		prog := newProgress(c.Logger)
		frame, err := sess.view.Update(ctx, snap)
		if err != nil {
			c.Logger.Error("rebuilding", "err", err)
			return
		}
		prog.done("Rebuilt " + sess.view.Project())
		printStats(frame.Build.Nodes, frame.Build.Edges, frame.Build.Placed, frame.Build.Skipped)
		if output == "" {
			return
		}
		data, err := encodeFrame(ctx, svgCache, frame, format, false)
		if err != nil {
			c.Logger.Error("rendering", "format", format, "err", err)
			return
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			c.Logger.Error("writing output", "file", output, "err", err)
		}
	}

	rebuild()
	printInfo("Watching %s (Ctrl+C to stop)", input)
	return watchFile(ctx, input, debounce, loggerFromContext(ctx), rebuild)
}

// watchFile calls onChange after path was written, created or renamed into
// place and then stayed quiet for debounce. It watches the parent directory
// so editors that replace the file are still followed. Blocks until ctx is
// done.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger *log.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("snapshot changed", "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)

		case <-timer.C:
			onChange()
		}
	}
}
