package main

import (
	"sortly/internal/tui"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the interactive command
func NewTUICmd(opts *rootOptions) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "tui [directory]",
		Short: "Sort a directory interactively",
		Long:  `Preview a directory, type optional instructions and watch each batch come back.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			s, err := newSorter(cfg)
			if err != nil {
				return err
			}
			return tui.Run(s, folderArg(args))
		},
	}

	// Instructions are typed into the UI.
	flags.registerOverrides(cmd)

	return cmd
}
