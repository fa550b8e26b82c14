package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdempotencyCache is an in-memory stand-in for RedisIdempotencyCache,
// used to exercise handler-level idempotency logic without a live Redis
// connection.
type fakeIdempotencyCache struct {
	store map[string]RunResult
}

func newFakeIdempotencyCache() *fakeIdempotencyCache {
	return &fakeIdempotencyCache{store: make(map[string]RunResult)}
}

func (c *fakeIdempotencyCache) Get(_ context.Context, key string) (*RunResult, bool, error) {
	v, ok := c.store[key]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *fakeIdempotencyCache) Set(_ context.Context, key string, result RunResult, _ time.Duration) error {
	c.store[key] = result
	return nil
}

var _ IdempotencyCache = (*fakeIdempotencyCache)(nil)

func TestRunResultSurvivesJSONRoundTrip(t *testing.T) {
	result := RunResult{
		BestFitness: 12.5,
		BestSchedule: Chromosome{
			{CourseID: "course-1", TeacherID: "teacher-1", ClassroomID: "room-1", Day: "Monday", TimeslotCode: "T1"},
		},
		BestReport: FitnessReport{IsFeasible: true, Fitness: 12.5},
		Metrics:    RunMetrics{TotalGenerations: 10},
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded RunResult
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, result.BestFitness, decoded.BestFitness)
	assert.Equal(t, result.BestSchedule, decoded.BestSchedule)
	assert.Equal(t, result.Metrics.TotalGenerations, decoded.Metrics.TotalGenerations)
	assert.True(t, decoded.BestReport.IsFeasible)
}

func TestFakeIdempotencyCacheSetThenGet(t *testing.T) {
	cache := newFakeIdempotencyCache()
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	result := RunResult{BestFitness: 3.0}
	require.NoError(t, cache.Set(ctx, "key-1", result, time.Minute))

	got, ok, err := cache.Get(ctx, "key-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.BestFitness)
}
