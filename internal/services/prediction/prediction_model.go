package prediction

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// gameDateLayout is the only accepted wire format for a game date. Anything
// else in the payload is treated as unparseable.
const gameDateLayout = "2006-01-02"

// Prediction is a row of the predictions table. The payload document is
// written by the prediction engine and treated as read-only here.
type Prediction struct {
	ID        int64          `db:"id"`
	GameID    int64          `db:"game_id"`
	Payload   types.JSONText `db:"payload"`
	GameDate  *time.Time     `db:"game_date"`
	CreatedAt time.Time      `db:"created_at"`
}

// ParseGameDate extracts the "game_date" field from a payload document.
// The boolean reports whether the key is present with a non-null value;
// a non-nil error means the value is present but not a valid date.
func ParseGameDate(payload types.JSONText) (time.Time, bool, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to decode payload: %w", err)
	}

	raw, ok := doc["game_date"]
	if !ok || string(raw) == "null" {
		return time.Time{}, false, nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return time.Time{}, true, fmt.Errorf("game_date is not a string: %w", err)
	}

	d, err := parseDate(value)
	if err != nil {
		return time.Time{}, true, err
	}

	return d, true, nil
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(gameDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid game date %q: %w", value, err)
	}
	return d, nil
}
