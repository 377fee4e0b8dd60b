package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"studyhub/internal/service"
	"studyhub/internal/storage"
)

var (
	dbPath     string
	ownerID    string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "studyctl",
	Short: "Inspect study recommendations and upload analytics",
	Long: `studyctl reads a studyhub database directly and prints recommendations,
the weekly upload series or folder analytics for one owner.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

		if strings.TrimSpace(ownerID) == "" {
			return errors.New("--owner is required")
		}
		return nil
	},
}

func init() {
	defaultDB := os.Getenv("DB_PATH")
	if defaultDB == "" {
		defaultDB = "./data/studyhub.db"
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to the studyhub SQLite database")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "owner id to report on")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// withInsights opens the database, runs fn and closes the database again.
func withInsights(fn func(service.InsightsService) error) error {
	db, err := storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return fn(service.NewInsightsService(storage.NewDocumentRepo(db), nil))
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
