package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockDB(t *testing.T) (sqlmock.Sqlmock, *sqlx.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return mock, sqlx.NewDb(db, "sqlmock")
}

func predictionColumns() []string {
	return []string{"id", "game_id", "payload", "game_date", "created_at"}
}

func TestSave(t *testing.T) {
	now := time.Now()

	t.Run("derives game_date from payload", func(t *testing.T) {
		mock, db := mockDB(t)
		payload := types.JSONText(`{"game_date": "2024-01-15"}`)
		mock.ExpectQuery("INSERT INTO predictions").
			WithArgs(int64(42), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(predictionColumns()).
				AddRow(int64(1), int64(42), []byte(payload), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), now))

		p := &Prediction{GameID: 42, Payload: payload}
		saved, err := NewPredictionRepo(db).Save(context.Background(), p)
		require.NoError(t, err)

		require.NotNil(t, p.GameDate)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *p.GameDate)
		assert.Equal(t, int64(1), saved.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps an explicitly set game_date", func(t *testing.T) {
		mock, db := mockDB(t)
		set := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("INSERT INTO predictions").
			WithArgs(int64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(predictionColumns()).
				AddRow(int64(2), int64(7), []byte(`{"game_date": "2024-03-02"}`), set, now))

		p := &Prediction{GameID: 7, Payload: types.JSONText(`{"game_date": "2024-03-02"}`), GameDate: &set}
		_, err := NewPredictionRepo(db).Save(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, set, *p.GameDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("leaves game_date null when underivable", func(t *testing.T) {
		mock, db := mockDB(t)
		payload := types.JSONText(`{"home_team": "BOS"}`)
		mock.ExpectQuery("INSERT INTO predictions").
			WithArgs(int64(9), sqlmock.AnyArg(), nil).
			WillReturnRows(sqlmock.NewRows(predictionColumns()).
				AddRow(int64(3), int64(9), []byte(payload), nil, now))

		p := &Prediction{GameID: 9, Payload: payload}
		saved, err := NewPredictionRepo(db).Save(context.Background(), p)
		require.NoError(t, err)
		assert.Nil(t, saved.GameDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListAll(t *testing.T) {
	mock, db := mockDB(t)
	now := time.Now()
	mock.ExpectQuery("SELECT id, game_id, payload, game_date, created_at").
		WillReturnRows(sqlmock.NewRows(predictionColumns()).
			AddRow(int64(1), int64(100), []byte(`{}`), nil, now).
			AddRow(int64(2), int64(200), []byte(`{"game_date": "2025-01-15"}`), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), now))

	predictions, err := NewPredictionRepo(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.Equal(t, int64(100), predictions[0].GameID)
	assert.Nil(t, predictions[0].GameDate)
	require.NotNil(t, predictions[1].GameDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountMissingGameDate(t *testing.T) {
	mock, db := mockDB(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := NewPredictionRepo(db).CountMissingGameDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
