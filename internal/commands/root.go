package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Wozniak7/Analisador-Financeiro/internal/buildinfo"
	"github.com/Wozniak7/Analisador-Financeiro/internal/config"
	"github.com/Wozniak7/Analisador-Financeiro/internal/logger"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "analisador",
		Short:   "Normalize and summarize bank statements and budget spreadsheets",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: console, json")

	rootCmd.AddCommand(newAnalyzeCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newServeCommand(opts))

	return rootCmd
}

// projectDir is the directory holding the config file. Relative paths such
// as the import directory and logs/ resolve against it.
func (o *globalOptions) projectDir() string {
	return filepath.Dir(o.configPath)
}

// setup loads .env, the config file and environment overrides, then builds
// the stderr logger. Flags win over both.
func (o *globalOptions) setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, zerolog.Nop(), fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, zerolog.Nop(), err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}
