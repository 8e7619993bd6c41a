package main

import (
	"strings"

	"sortly/internal/config"
	"sortly/internal/llm"
	"sortly/internal/log"
	"sortly/internal/organize"
	"sortly/internal/sorter"
	"sortly/internal/tools"

	"github.com/spf13/cobra"
)

// rootOptions holds the global flags and the configuration they resolve to.
type rootOptions struct {
	configPath string
	debug      bool
	logJSON    bool

	cfg *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "sortly",
		Short: "Sort a folder into subfolders chosen by a language model",
		Long: `Sortly lists a folder, asks a chat-completion model how its files should be
grouped and moves every file into the folder the model picked.

The API key is read from the environment variable named in the config
(OPENAI_API_KEY by default).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/sortly/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON lines")

	rootCmd.AddCommand(NewSortCmd(opts))
	rootCmd.AddCommand(NewWatchCmd(opts))
	rootCmd.AddCommand(NewTUICmd(opts))
	rootCmd.AddCommand(NewConfigCmd(opts))

	return rootCmd
}

// path returns the config file in use.
func (o *rootOptions) path() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultPath()
}

// load reads the config file and sets up logging from it.
func (o *rootOptions) load(cmd *cobra.Command) error {
	path, err := o.path()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.setupLogging(cmd, cfg)
	log.LogWithFields(log.F("config", path)).Debug("Configuration loaded")
	return nil
}

// setupLogging sends logs to stderr so command output stays on stdout.
func (o *rootOptions) setupLogging(cmd *cobra.Command, cfg *config.Config) {
	level := cfg.Logging.Level
	if o.debug {
		level = "debug"
	}
	logOpts := []log.Option{log.WithOutput(cmd.ErrOrStderr()), log.WithLevel(level)}
	if o.logJSON || cfg.Logging.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	if cfg.Logging.File != "" {
		logOpts = append(logOpts, log.WithFile(cfg.Logging.File))
	}
	log.Configure(logOpts...)
	log.SetDebug(strings.EqualFold(level, "debug"))
}

// runFlags are shared by the commands that start a sort.
type runFlags struct {
	prompt    string
	model     string
	batchSize int
	dryRun    bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", "", "extra instructions appended to every request")
	f.registerOverrides(cmd)
}

// registerOverrides adds the flags that override config values.
func (f *runFlags) registerOverrides(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.model, "model", "", "model name or preset (see 'sortly config models')")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "names per request (default from config)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report planned moves without touching files")
}

// apply copies flag overrides into cfg.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if f.model != "" {
		cfg.ApplyModel(f.model)
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Sort.BatchSize = f.batchSize
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Sort.DryRun = f.dryRun
	}
	return cfg.Validate()
}

// newSorter wires the model client, the sort tool and the file mover.
func newSorter(cfg *config.Config) (*sorter.Sorter, error) {
	ignore, err := sorter.CompileIgnore(cfg.Sort.Ignore)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry()
	organizer := organize.NewOrganizer(organize.WithDryRun(cfg.Sort.DryRun))
	if err := tools.RegisterSort(registry, organizer); err != nil {
		return nil, err
	}

	client := llm.NewWithConfig(cfg.LLM)
	log.LogWithFields(
		log.F("model", client.Model()),
		log.F("base_url", cfg.LLM.BaseURL),
		log.F("dry_run", cfg.Sort.DryRun),
	).Debug("Sorter ready")

	return sorter.New(client, registry,
		sorter.WithTemperature(cfg.LLM.Temperature),
		sorter.WithBatchSize(cfg.Sort.BatchSize),
		sorter.WithIgnore(ignore...),
	), nil
}

func folderArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
