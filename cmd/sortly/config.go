package main

import (
	"fmt"
	"os"

	"sortly/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigModelsCmd())

	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var (
		force bool
		model string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		// A broken file must not stop init from replacing it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.setupLogging(cmd, config.New())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.New()
			if model != "" {
				cfg.ApplyModel(model)
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successText("Wrote "+path))
			fmt.Fprintln(cmd.OutOrStdout(), infoText(fmt.Sprintf("Set %s before sorting.", cfg.LLM.APIKeyEnv)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVar(&model, "model", "", "model name or preset to start from")

	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(opts.cfg.Masked())
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the model presets accepted by --model",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListModels() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
