package migrations

import (
	"context"

	"github.com/courtside/nbaquant/internal/services/prediction"

	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20260830091500",
		up:      mig_20260830091500_add_game_date_to_predictions_up,
		down:    mig_20260830091500_add_game_date_to_predictions_down,
	})
}

// Adds the game_date column and populates it from each row's payload.
// Rows inserted before the column existed carry the date inside the payload
// document only; rows where the payload has no parseable date stay null.
func mig_20260830091500_add_game_date_to_predictions_up(tx *sqlx.Tx) error {
	_, err := prediction.NewRunner(tx).Run(context.Background())
	return err
}

func mig_20260830091500_add_game_date_to_predictions_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE predictions
		DROP COLUMN IF EXISTS game_date;
	`)
	return err
}
