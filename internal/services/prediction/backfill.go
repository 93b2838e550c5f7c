package prediction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Result aggregates what a backfill pass did.
type Result struct {
	// Scanned is the number of rows that matched the backfill predicate.
	Scanned int
	// Updated is the number of rows whose game_date was written.
	Updated int
	// Malformed holds the ids of rows whose payload carries a game_date
	// value that does not parse as a date. They are left null.
	Malformed []int64
}

// Runner brings the predictions table to the state where the game_date
// column exists and holds the date derived from each row's payload wherever
// one can be derived. All statements run on the supplied transaction, so an
// interrupted pass leaves the remaining null rows selectable by a re-run.
type Runner struct {
	tx *sqlx.Tx
}

// NewRunner creates a runner bound to an open transaction.
func NewRunner(tx *sqlx.Tx) *Runner {
	return &Runner{tx: tx}
}

// Run executes both phases in order: add the column, then backfill it.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.EnsureColumn(ctx); err != nil {
		return nil, err
	}

	return r.BackfillDates(ctx)
}

// EnsureColumn adds the nullable game_date column to the predictions table.
// Calling it when the column already exists is a no-op.
func (r *Runner) EnsureColumn(ctx context.Context) error {
	var tableExists bool
	err := r.tx.GetContext(ctx, &tableExists, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'predictions'
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to check predictions table existence: %w", err)
	}

	if !tableExists {
		return fmt.Errorf("predictions table does not exist")
	}

	_, err = r.tx.ExecContext(ctx, `
		ALTER TABLE predictions
		ADD COLUMN IF NOT EXISTS game_date DATE;
	`)
	if err != nil {
		return fmt.Errorf("failed to add game_date column: %w", err)
	}

	return nil
}

type backfillRow struct {
	ID  int64  `db:"id"`
	Raw string `db:"raw_game_date"`
}

// BackfillDates writes game_date for every row where it is null and the
// payload carries a non-null game_date value. Rows whose value does not
// parse as a date are skipped and reported, never fatal; rows where
// game_date is already set are never touched.
func (r *Runner) BackfillDates(ctx context.Context) (*Result, error) {
	var rows []backfillRow
	err := r.tx.SelectContext(ctx, &rows, `
		SELECT id, payload->>'game_date' AS raw_game_date
		FROM predictions
		WHERE game_date IS NULL
		AND payload->>'game_date' IS NOT NULL
		ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to select predictions missing game_date: %w", err)
	}

	res := &Result{Scanned: len(rows)}

	for _, row := range rows {
		d, err := parseDate(row.Raw)
		if err != nil {
			// One bad payload must not abort the pass.
			slog.Warn("Skipping prediction with malformed game_date",
				slog.Int64("id", row.ID),
				slog.String("value", row.Raw))
			res.Malformed = append(res.Malformed, row.ID)
			continue
		}

		// The IS NULL guard keeps a concurrent pass from overwriting a row
		// the other pass already settled.
		if _, err := r.tx.ExecContext(ctx, `
			UPDATE predictions
			SET game_date = $1
			WHERE id = $2 AND game_date IS NULL;
		`, d, row.ID); err != nil {
			return res, fmt.Errorf("failed to set game_date for prediction %d: %w", row.ID, err)
		}

		res.Updated++
	}

	if len(res.Malformed) > 0 {
		slog.Warn("Backfill finished with malformed game_date values",
			slog.Int("count", len(res.Malformed)),
			slog.Any("ids", res.Malformed))
	}

	return res, nil
}
