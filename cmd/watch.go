package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"crepbook/pkg/usecase"
	"crepbook/pkg/watcher"
)

func buildWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Print changes to a directory's entries until interrupted",
		Long: `Watches the direct children of dir and prints the touched paths each time
changes settle. Without dir, the stored default vault path is watched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
}

func runWatch(_ *cobra.Command, args []string) error {
	return withService(func(svc *usecase.Service) error {
		dir := svc.Settings().DefaultRootPath()
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			return errors.New("no directory given and no default vault path stored")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		changes, err := watcher.Watch(ctx, dir, watcher.Options{})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", dir)
		for change := range changes {
			if err := render(change, func() {
				for _, path := range change.Paths {
					fmt.Printf("CHANGED: %s\n", path)
				}
			}); err != nil {
				return err
			}
		}

		return nil
	})
}
