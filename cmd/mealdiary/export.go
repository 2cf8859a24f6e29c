package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hyperengineering/mealdiary/internal/config"
	"github.com/hyperengineering/mealdiary/internal/export"
)

var exportCmd = &cobra.Command{
	Use:       "export {entries|histogram}",
	Short:     "Dump a CSV view of the log to stdout",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"entries", "histogram"},
	RunE:      runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	switch args[0] {
	case "entries":
		entries, err := db.AllEntries(ctx)
		if err != nil {
			return fmt.Errorf("read entries: %w", err)
		}
		return export.WriteEntries(cmd.OutOrStdout(), entries)
	case "histogram":
		counts, _, err := db.HourHistogram(ctx)
		if err != nil {
			return fmt.Errorf("read histogram: %w", err)
		}
		return export.WriteHistogram(cmd.OutOrStdout(), counts)
	}
	return nil
}
