package scheduler

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestHistoryRepositoryRecord(t *testing.T) {
	db, mock, cleanup := newHistoryRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduler_runs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := RunResult{
		BestFitness: 4.2,
		BestReport:  FitnessReport{IsFeasible: true},
		Metrics: RunMetrics{
			TotalGenerations:        10,
			TotalPopulationRestarts: 1,
			ExecutionTime:           2 * time.Second,
		},
	}
	err := repo.Record(context.Background(), result)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryRecent(t *testing.T) {
	db, mock, cleanup := newHistoryRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "requested_at", "generations", "best_fitness", "is_feasible", "penalty_restarts", "execution_seconds"}).
		AddRow("run-1", time.Now(), 50, 3.1, true, 0, 1.5)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, requested_at, generations, best_fitness, is_feasible, penalty_restarts, execution_seconds")).
		WithArgs(50).
		WillReturnRows(rows)

	records, err := repo.Recent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "run-1", records[0].ID)
	assert.True(t, records[0].IsFeasible)
}

func TestHistoryRepositoryRecentClampsLimit(t *testing.T) {
	db, mock, cleanup := newHistoryRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "requested_at", "generations", "best_fitness", "is_feasible", "penalty_restarts", "execution_seconds"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, requested_at, generations, best_fitness, is_feasible, penalty_restarts, execution_seconds")).
		WithArgs(50).
		WillReturnRows(rows)

	_, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
