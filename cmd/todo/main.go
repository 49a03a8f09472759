package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bada/internal/config"
	"bada/internal/output"
	"bada/internal/storage"
	"bada/internal/ui"
	"bada/internal/view"
)

var (
	configPath string
	dbPath     string
	yamlOutput bool
	formatter  output.Formatter
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "A terminal to-do list",
		Long:  "todo - a terminal to-do list with date, status and priority filters, search and categories.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if yamlOutput {
				formatter = output.NewYAMLFormatter()
			} else {
				formatter = output.NewHumanFormatter()
			}
		},
		Run: func(_ *cobra.Command, _ []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()

			if err := ui.Run(store, cfg); err != nil {
				fmt.Printf("error running program: %v\n", err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $BADA_CONFIG or ~/.config/bada/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file, overrides db_path from the config")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")

	rootCmd.AddCommand(
		listCmd(),
		addCmd(),
		doneCmd(),
		pinCmd(),
		rmCmd(),
		categoryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		printError(fmt.Errorf("failed to load config: %w", err))
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.DBPath, cfg.Priorities)
	if err != nil {
		printError(fmt.Errorf("failed to open database: %w", err))
	}
	return store
}

// newController loads the first snapshot with the configured default
// filters applied.
func newController(store *storage.Store, cfg config.Config) *view.Controller {
	ctrl := view.NewController(store, cfg.Priorities, view.WithFilter(ui.FilterFromConfig(cfg)))
	if err := ctrl.Refresh(); err != nil {
		printError(err)
	}
	return ctrl
}

func printOutput(s string) {
	os.Stdout.WriteString(s)
}

func printError(err error) {
	if formatter == nil {
		formatter = output.NewHumanFormatter()
	}
	os.Stdout.WriteString(formatter.FormatError(err))
	os.Exit(1)
}
