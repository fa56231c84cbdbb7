// Package cli implements the dockprep command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
)

var (
	// Version is injected at build time via -ldflags.
	Version = "dev"
)

type rootOptions struct {
	configPath string
	logLevel   string
	outputDir  string
}

// NewRootCommand assembles the dockprep command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "dockprep",
		Short: "Prepare protein structures for molecular docking",
		Long: `dockprep fetches structure metadata and raw files from the RCSB
Protein Data Bank and drives pdb2pqr and Open Babel to produce
docking-ready .pdbqt files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (defaults to environment configuration)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "output directory (defaults to the configured work dir)")

	root.AddCommand(
		newFetchCommand(opts),
		newDownloadCommand(opts),
		newPrepareCommand(opts),
		newVersionCommand(),
	)
	return root
}

// loadConfig resolves the effective configuration for a command run.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.outputDir != "" {
		cfg.Tools.WorkDir = o.outputDir
	}
	return cfg, nil
}

// newLogger builds the CLI logger. CLI output stays on stderr so command
// results on stdout remain pipeable.
func (o *rootOptions) newLogger(cfg *config.Config) (logging.Logger, error) {
	logCfg := cfg.Log
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
