package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizard/internal/config"
	"github.com/abhisek/quizard/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "quizard",
	Short:         "AI quiz server",
	Long:          "Quizard serves ten-question multiple choice quizzes generated by an LLM, weighted toward each player's weak subtopics.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default ./quizard.yaml when present)")
	pf.String("db", "", "Database DSN or SQLite file path (overrides QUIZARD_DB_DSN)")
	pf.String("db-driver", "", "Database driver: sqlite, postgres or mysql")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers flags over env, config file and defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	v, err := config.NewViper(file)
	if err != nil {
		return nil, err
	}
	if err := v.BindPFlag("db.dsn", cmd.Flags().Lookup("db")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("db.driver", cmd.Flags().Lookup("db-driver")); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// openStore loads configuration and opens the database it names.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DB.Driver == "sqlite" {
		if err := store.EnsureDir(cfg.DB.DSN); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	s, err := store.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}

// cliLogger is the human-readable logger used by maintenance commands.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
