package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RunRecord is one persisted scheduling run, stored for audit and for
// future warm-start research.
type RunRecord struct {
	ID               string    `db:"id"`
	RequestedAt      time.Time `db:"requested_at"`
	Generations      int       `db:"generations"`
	BestFitness      float64   `db:"best_fitness"`
	IsFeasible       bool      `db:"is_feasible"`
	PenaltyRestarts  int       `db:"penalty_restarts"`
	ExecutionSeconds float64   `db:"execution_seconds"`
}

// HistoryRepository persists one row per completed scheduling run.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record stores the outcome of one controller run.
func (r *HistoryRepository) Record(ctx context.Context, result RunResult) error {
	record := RunRecord{
		ID:               uuid.NewString(),
		RequestedAt:      time.Now().UTC(),
		Generations:      result.Metrics.TotalGenerations,
		BestFitness:      result.BestFitness,
		IsFeasible:       result.BestReport.IsFeasible,
		PenaltyRestarts:  result.Metrics.TotalPopulationRestarts,
		ExecutionSeconds: result.Metrics.ExecutionTime.Seconds(),
	}
	const query = `INSERT INTO scheduler_runs
		(id, requested_at, generations, best_fitness, is_feasible, penalty_restarts, execution_seconds)
		VALUES (:id, :requested_at, :generations, :best_fitness, :is_feasible, :penalty_restarts, :execution_seconds)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("record scheduler run: %w", err)
	}
	return nil
}

// Recent returns the most recently recorded runs, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `SELECT id, requested_at, generations, best_fitness, is_feasible, penalty_restarts, execution_seconds
		FROM scheduler_runs ORDER BY requested_at DESC LIMIT $1`
	var records []RunRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("list scheduler runs: %w", err)
	}
	return records, nil
}
