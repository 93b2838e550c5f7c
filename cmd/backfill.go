package cmd

import (
	"log/slog"
	"os"

	"github.com/courtside/nbaquant/internal/config"
	"github.com/courtside/nbaquant/internal/db"
	"github.com/courtside/nbaquant/internal/services/prediction"

	"github.com/spf13/cobra"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Populate game_date for predictions that are missing it",
	Long:  "Re-runs the game_date backfill pass.\nSafe to run any number of times: rows with game_date already set are never touched.",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()
		conn := db.NewConn(conf)
		ctx := cmd.Context()

		repo := prediction.NewPredictionRepo(conn)
		missing, err := repo.CountMissingGameDate(ctx)
		if err != nil {
			slog.Error("Unable to count predictions missing game_date", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Starting backfill", slog.Int("missing", missing))

		tx, err := conn.BeginTxx(ctx, nil)
		if err != nil {
			slog.Error("Unable to start transaction", slog.Any("error", err))
			os.Exit(1)
		}

		res, err := prediction.NewRunner(tx).Run(ctx)
		if err != nil {
			tx.Rollback()
			slog.Error("Backfill failed", slog.Any("error", err))
			os.Exit(1)
		}

		if err := tx.Commit(); err != nil {
			slog.Error("Unable to commit backfill", slog.Any("error", err))
			os.Exit(1)
		}

		slog.Info("Backfill complete",
			slog.Int("scanned", res.Scanned),
			slog.Int("updated", res.Updated),
			slog.Int("malformed", len(res.Malformed)))
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}
