package prediction

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PredictionRepo handles database operations for prediction rows
type PredictionRepo struct {
	db *sqlx.DB
}

// NewPredictionRepo creates a new prediction repository
func NewPredictionRepo(db *sqlx.DB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

// Save inserts a prediction row. When the caller did not set a game date,
// one is derived from the payload so new rows never depend on a later
// backfill pass. An underivable date is simply left null.
func (r *PredictionRepo) Save(ctx context.Context, p *Prediction) (*Prediction, error) {
	if p.GameDate == nil {
		if d, ok, err := ParseGameDate(p.Payload); err == nil && ok {
			p.GameDate = &d
		}
	}

	query := `
		INSERT INTO predictions (game_id, payload, game_date)
		VALUES ($1, $2, $3)
		RETURNING id, game_id, payload, game_date, created_at
	`

	var saved Prediction
	if err := r.db.GetContext(ctx, &saved, query, p.GameID, p.Payload, p.GameDate); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	return &saved, nil
}

// ListAll returns every prediction ordered by id
func (r *PredictionRepo) ListAll(ctx context.Context) ([]Prediction, error) {
	query := `
		SELECT id, game_id, payload, game_date, created_at
		FROM predictions
		ORDER BY id
	`

	var predictions []Prediction
	if err := r.db.SelectContext(ctx, &predictions, query); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	return predictions, nil
}

// CountMissingGameDate reports how many rows still have no game_date
func (r *PredictionRepo) CountMissingGameDate(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM predictions
		WHERE game_date IS NULL
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count predictions missing game_date: %w", err)
	}

	return count, nil
}
