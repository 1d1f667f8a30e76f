package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfassina/wikilinks/internal/ui"
	"github.com/pfassina/wikilinks/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Resolve markdown files whenever they change",
		Long: `Watch a directory tree and resolve every markdown file that is
written or created, logging what was rewritten. Nothing is written back.

Example:
  wikilinks watch ~/notes --log-level debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], summary)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print a report for each resolved file")
	return cmd
}

func (a *app) watch(ctx context.Context, dir string, summary bool) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w, err := watch.New(dir, watch.DefaultDebounce, func(path string) {
		_, report, err := a.resolvePath(nil, path, inputMarkdown)
		if err != nil {
			a.log.FileError(path, err)
			return
		}
		if summary {
			fmt.Fprintln(a.stderr, ui.RenderReport(path, report))
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer w.Close()

	a.log.Info("watching", "dir", dir)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
