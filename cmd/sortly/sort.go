package main

import (
	"fmt"
	"path/filepath"

	"sortly/internal/organize"
	"sortly/internal/sorter"
	"sortly/pkg/types"

	"github.com/spf13/cobra"
)

// NewSortCmd creates the sort command
func NewSortCmd(opts *rootOptions) *cobra.Command {
	var (
		flags    runFlags
		showTree bool
	)

	cmd := &cobra.Command{
		Use:   "sort [directory]",
		Short: "Sort the files of a directory into subfolders",
		Long: `Sort lists the immediate entries of a directory (the current one by default),
sends them to the model in batches and moves each file into the folder the
model chose. Files the model does not mention are left in place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			root, err := filepath.Abs(folderArg(args))
			if err != nil {
				return err
			}

			s, err := newSorter(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Sort.DryRun {
				fmt.Fprintln(out, infoText("Dry run: no files will be moved"))
			}
			fmt.Fprintln(out, infoText("Sorting "+root))

			var total types.MoveReport
			batches := 0
			err = s.SortDirectory(cmd.Context(), root, flags.prompt, func(b sorter.BatchResult) bool {
				batches++
				total = append(total, b.Report...)
				printBatch(out, b)
				return true
			})
			if err != nil {
				printFailure(out, err)
				return err
			}

			if batches == 0 {
				fmt.Fprintln(out, infoText("Nothing to sort"))
			} else {
				fmt.Fprintln(out, successText(fmt.Sprintf("Finished %d batch(es): %s", batches, total.Summary())))
			}

			if showTree {
				tree, err := organize.RenderTree(root)
				if err != nil {
					return err
				}
				fmt.Fprint(out, tree)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showTree, "tree", false, "print the folder tree after sorting")

	return cmd
}
