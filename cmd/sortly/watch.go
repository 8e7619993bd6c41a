package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sortly/internal/sorter"
	"sortly/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd(opts *rootOptions) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "watch [directory...]",
		Short: "Sort new files as they appear",
		Long: `Watch the given directories (the current one by default). Files created or
written directly inside them are sorted once the directory has been quiet for
the settle period from the config. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			s, err := newSorter(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			daemon, err := watch.NewDaemon(s,
				watch.WithSettle(time.Duration(cfg.Watch.SettleSeconds)*time.Second),
				watch.WithInstructions(flags.prompt),
				watch.WithBatchCallback(func(dir string, b sorter.BatchResult) {
					fmt.Fprintln(out, infoText(dir))
					printBatch(out, b)
				}),
				watch.WithErrorCallback(func(dir string, err error) {
					fmt.Fprintln(out, infoText(dir))
					printFailure(out, err)
				}),
			)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"."}
			}
			for _, dir := range args {
				if err := daemon.AddWatchDirectory(dir); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			status := daemon.Status()
			fmt.Fprintln(out, infoText(fmt.Sprintf("Watching %v. Press Ctrl+C to stop.", status.WatchDirectories)))
			if cfg.Sort.DryRun {
				fmt.Fprintln(out, infoText("Dry run: no files will be moved"))
			}

			if err := daemon.Run(ctx); err != nil {
				return err
			}

			status = daemon.Status()
			fmt.Fprintln(out, successText(fmt.Sprintf("Watch stopped. %d file(s) moved.", status.FilesProcessed)))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
