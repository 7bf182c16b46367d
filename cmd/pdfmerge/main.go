// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfmerge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfmerge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --log-level before any command runs.
var logger = logrus.New()

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// rootCmd is the base command for the pdfmerge CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfmerge",
	Short: "Merge PDF files into a single document",
	Long: `pdfmerge concatenates the pages of PDF files, in the order given, into a
single PDF saved as <prefix>_<YYYYMMDD>.pdf. Inputs are checked to be PDFs
before any processing starts; if any input cannot be parsed the whole merge
is abandoned and the offending file is named.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfmerge.yaml or ~/.config/pdfmerge/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
}

func initConfig() {
	viper.SetDefault("merge.prefix", "merged")
	viper.SetDefault("merge.output_dir", ".")
	viper.SetDefault("merge.concurrency", 1)
	viper.SetDefault("engine.ignore_encryption", true)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.max_results", 20)
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("history.dir", filepath.Join(home, ".local", "share", "pdfmerge"))
	} else {
		viper.SetDefault("history.dir", ".pdfmerge")
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfmerge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfmerge"))
		}
	}

	viper.SetEnvPrefix("PDFMERGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debugf("using config file %s", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the typed configuration from viper.
func loadConfig() types.Config {
	return types.Config{
		Merge: types.MergeConfig{
			Prefix:      viper.GetString("merge.prefix"),
			OutputDir:   viper.GetString("merge.output_dir"),
			Concurrency: viper.GetInt("merge.concurrency"),
			Open:        viper.GetBool("merge.open"),
		},
		Engine: types.EngineConfig{
			Strict:           viper.GetBool("engine.strict"),
			IgnoreEncryption: viper.GetBool("engine.ignore_encryption"),
		},
		History: types.HistoryConfig{
			Enabled:    viper.GetBool("history.enabled"),
			Dir:        viper.GetString("history.dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
}

// bindFlag binds a command flag to a viper key, panicking on a typo.
func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding %s to %s: %v", flag, key, err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
