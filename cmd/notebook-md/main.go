// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notebook-md CLI. The root command
// converts e-reader notebook exports to markdown; subcommands manage the
// highlight library.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notebook-md/internal/convert"
	"github.com/pdiddy/notebook-md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger receives diagnostics; per-file status lines go to stdout.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// rootCmd converts every positional path.
var rootCmd = &cobra.Command{
	Use:   "notebook-md [flags] <paths...>",
	Short: "Convert Kindle notebook exports to markdown",
	Long: `notebook-md turns the HTML notebooks exported by an e-reader into
markdown files placed next to each input. Every path is handled on its own
and reported with one status line; a bad path never stops the batch.

By default "Title - Notebook.html" becomes "Title.md" with unsafe characters
removed. Use --no-rename to keep the original name and --txt to write .txt.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	conv, err := convert.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	conv.ConvertPaths(ctx, args, cmd.OutOrStdout())
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notebook-md.yaml or ~/.config/notebook-md/notebook-md.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")

	rootCmd.Flags().Bool("no-rename", false, "keep the input file name instead of sanitizing it")
	rootCmd.Flags().Bool("txt", false, "write .txt files instead of .md")
	rootCmd.Flags().Int("concurrency", 0, "files converted at once (0 = config value)")
}

func initConfig() {
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notebook-md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notebook-md"))
		}
	}

	viper.SetEnvPrefix("NOTEBOOK_MD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(types.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		logger.Warn("could not read config file", "path", cfgFile, "error", err)
	}
}

// setDefaults registers every config key so environment variables are seen
// by Unmarshal even when no config file exists.
func setDefaults(d types.Config) {
	viper.SetDefault("parser.authors_selector", d.Parser.AuthorsSelector)
	viper.SetDefault("parser.title_selector", d.Parser.TitleSelector)
	viper.SetDefault("parser.highlight_selectors", d.Parser.HighlightSelectors)
	viper.SetDefault("parser.skip_patterns", d.Parser.SkipPatterns)
	viper.SetDefault("output.extension", d.Output.Extension)
	viper.SetDefault("output.naming", d.Output.Naming)
	viper.SetDefault("output.concurrency", d.Output.Concurrency)
	viper.SetDefault("library.path", d.Library.Path)
	viper.SetDefault("library.max_results", d.Library.MaxResults)
}

// loadConfig merges defaults, config file, environment and the root command's
// flags, then validates the result.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	flags := cmd.Root().Flags()
	if noRename, _ := flags.GetBool("no-rename"); noRename {
		cfg.Output.Naming = types.NamingPreserve
	}
	if txt, _ := flags.GetBool("txt"); txt {
		cfg.Output.Extension = ".txt"
	}
	if n, _ := flags.GetInt("concurrency"); n > 0 {
		cfg.Output.Concurrency = n
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
