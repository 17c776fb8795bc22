// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the insight-engine CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/insight-engine/internal/corpus"
	"github.com/pdiddy/insight-engine/internal/pipeline"
	"github.com/pdiddy/insight-engine/internal/secrets"
	"github.com/pdiddy/insight-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// envKeys are the config keys that may be set through INSIGHT_ENGINE_*
// environment variables (dots become underscores).
var envKeys = []string{
	"corpus.dir",
	"corpus.index_dir",
	"corpus.personas_file",
	"corpus.prewarm_concurrency",
	"selection.desired_count",
	"scoring.embeddings",
	"scoring.embeddings_file",
	"scoring.embedding_model",
	"chain.backend_timeout",
	"chain.deadline_reserve",
	"model.provider",
	"model.endpoint",
	"model.model",
	"model.api_key",
	"model.priority",
	"telemetry.enabled",
	"server.addr",
	"server.request_deadline",
}

var rootCmd = &cobra.Command{
	Use:   "insight-engine",
	Short: "Generate short persona-voiced insights from a curated corpus",
	Long: `insight-engine selects sentences from a curated corpus keyed by two
integer axes, fuses them into a short passage in a persona's voice, grades
the passage, and falls back through a chain of backends until one is
accepted. A deterministic fallback guarantees every request gets an answer.

Subcommands cover one-shot generation, selection and evaluation for
debugging, corpus management, and an HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadEnvFile(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./insight-engine.yaml or ~/.config/insight-engine/insight-engine.yaml)")
	rootCmd.PersistentFlags().String("corpus-dir", "corpus", "directory of curated corpus YAML files")
	rootCmd.PersistentFlags().String("index-dir", "index", "directory holding corpus.db")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("from-yaml", false, "read the corpus straight from corpus.dir instead of the SQLite index")
	viper.BindPFlag("corpus.dir", rootCmd.PersistentFlags().Lookup("corpus-dir"))
	viper.BindPFlag("corpus.index_dir", rootCmd.PersistentFlags().Lookup("index-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("insight-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "insight-engine"))
		}
	}

	viper.SetEnvPrefix("INSIGHT_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, k := range envKeys {
		viper.BindEnv(k)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file and environment over the defaults and
// applies model secrets.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	secrets.ApplyModel(&cfg.Model, loadedSecrets)
	return cfg, nil
}

func newLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	name, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openPipeline builds a pipeline from the merged config.
func openPipeline(cmd *cobra.Command) (*pipeline.Pipeline, types.PipelineConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	opts := pipeline.Options{Logger: newLogger(cmd, os.Stderr)}
	if fromYAML, _ := cmd.Flags().GetBool("from-yaml"); fromYAML {
		store, err := corpus.NewMemoryStoreFromDir(cfg.Corpus.Dir)
		if err != nil {
			return nil, cfg, err
		}
		opts.Store = store
	}
	p, err := pipeline.New(cfg, opts)
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
