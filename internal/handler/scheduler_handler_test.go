package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduplan/adaptive-scheduler/internal/metrics"
	"github.com/eduplan/adaptive-scheduler/internal/scheduler"
)

func testHandlerConfig() SchedulerHandlerConfig {
	return SchedulerHandlerConfig{
		MaxGenerations:  20,
		DefaultDeadline: time.Second,
		MaxDeadline:     2 * time.Second,
		MaxRestarts:     0,
		RandomSeed:      1,
		IdempotencyTTL:  time.Minute,
	}
}

func newTestSchedulerHandler(t *testing.T, cache scheduler.IdempotencyCache) (*SchedulerHandler, *scheduler.Dispatcher) {
	t.Helper()
	logger := zap.NewNop()
	dispatcher := scheduler.NewDispatcher(2, logger)
	dispatcher.Start(context.Background())
	t.Cleanup(dispatcher.Stop)
	handler := NewSchedulerHandler(logger, metrics.New(), dispatcher, cache, nil, testHandlerConfig())
	return handler, dispatcher
}

func sampleGenerateBody() []byte {
	payload := map[string]interface{}{
		"courses": []map[string]interface{}{
			{
				"courseId":        "course-1",
				"name":            "Algorithms",
				"ectsCredits":     6,
				"teacherId":       "teacher-1",
				"sessionType":     "LECTURE",
				"sessionsPerWeek": 1,
				"studentGroupIds": []string{"group-1"},
			},
		},
		"teachers": []map[string]interface{}{
			{"teacherId": "teacher-1"},
		},
		"rooms": []map[string]interface{}{
			{"classroomId": "room-1", "capacity": 30, "type": "LECTURE"},
		},
		"studentGroups": []map[string]interface{}{
			{"studentGroupId": "group-1", "size": 25},
		},
		"timeslots": []map[string]interface{}{
			{"timeslotId": "ts-1", "code": "T1", "order": 0},
		},
		"maxGenerations":  3,
		"deadlineSeconds": 1,
	}
	raw, _ := json.Marshal(payload)
	return raw
}

func performGenerate(t *testing.T, handler *SchedulerHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/scheduler", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handler.Generate(c)
	return w
}

func TestSchedulerHandlerGenerateHappyPath(t *testing.T) {
	handler, _ := newTestSchedulerHandler(t, nil)
	w := performGenerate(t, handler, sampleGenerateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data scheduler.GenerateResponseData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.BestSchedule)
}

func TestSchedulerHandlerGenerateMalformedBody(t *testing.T) {
	handler, _ := newTestSchedulerHandler(t, nil)
	w := performGenerate(t, handler, []byte(`{"courses":`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSchedulerHandlerGenerateValidationFailure(t *testing.T) {
	handler, _ := newTestSchedulerHandler(t, nil)
	w := performGenerate(t, handler, []byte(`{}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSchedulerHandlerGenerateIdempotencyCacheHit(t *testing.T) {
	cache := newFakeHandlerIdempotencyCache()
	body := sampleGenerateBody()
	key := hashBody(body)
	cached := scheduler.RunResult{BestFitness: 99, BestReport: scheduler.FitnessReport{IsFeasible: true}}
	require.NoError(t, cache.Set(context.Background(), key, cached, time.Minute))

	handler, _ := newTestSchedulerHandler(t, cache)
	w := performGenerate(t, handler, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data scheduler.GenerateResponseData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 99.0, envelope.Data.BestFitness, "a cache hit must short-circuit the search and return the cached fitness")
}

func TestSchedulerHandlerEvaluateHappyPath(t *testing.T) {
	handler, _ := newTestSchedulerHandler(t, nil)
	gin.SetMode(gin.TestMode)

	payload := map[string]interface{}{
		"schedule": []map[string]interface{}{
			{"courseId": "course-1", "teacherId": "teacher-1", "sessionType": "LECTURE", "classroomId": "room-1", "timeslot": "T1", "day": "Monday", "studentGroupIds": []string{"group-1"}},
		},
		"courses": []map[string]interface{}{
			{"courseId": "course-1", "name": "Algorithms", "ectsCredits": 6, "teacherId": "teacher-1", "sessionType": "LECTURE", "sessionsPerWeek": 1, "studentGroupIds": []string{"group-1"}},
		},
		"teachers":      []map[string]interface{}{{"teacherId": "teacher-1"}},
		"rooms":         []map[string]interface{}{{"classroomId": "room-1", "capacity": 30, "type": "LECTURE"}},
		"studentGroups": []map[string]interface{}{{"studentGroupId": "group-1", "size": 25}},
		"timeslots":     []map[string]interface{}{{"timeslotId": "ts-1", "code": "T1", "order": 0}},
	}
	raw, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/scheduler/evaluate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Evaluate(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data scheduler.EvaluateResponseData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Summary.IsFeasible)
}

func TestSchedulerHandlerEvaluatePDFFormat(t *testing.T) {
	handler, _ := newTestSchedulerHandler(t, nil)
	gin.SetMode(gin.TestMode)

	payload := map[string]interface{}{
		"schedule": []map[string]interface{}{
			{"courseId": "course-1", "teacherId": "teacher-1", "sessionType": "LECTURE", "classroomId": "room-1", "timeslot": "T1", "day": "Monday", "studentGroupIds": []string{"group-1"}},
		},
		"courses": []map[string]interface{}{
			{"courseId": "course-1", "name": "Algorithms", "ectsCredits": 6, "teacherId": "teacher-1", "sessionType": "LECTURE", "sessionsPerWeek": 1, "studentGroupIds": []string{"group-1"}},
		},
		"teachers":      []map[string]interface{}{{"teacherId": "teacher-1"}},
		"rooms":         []map[string]interface{}{{"classroomId": "room-1", "capacity": 30, "type": "LECTURE"}},
		"studentGroups": []map[string]interface{}{{"studentGroupId": "group-1", "size": 25}},
		"timeslots":     []map[string]interface{}{{"timeslotId": "ts-1", "code": "T1", "order": 0}},
	}
	raw, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/scheduler/evaluate?format=pdf", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Evaluate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestSchedulerHandlerEvaluateValidationFailure(t *testing.T) {
	handler, _ := newTestSchedulerHandler(t, nil)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/scheduler/evaluate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Evaluate(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// fakeHandlerIdempotencyCache is a package-local, in-memory implementation
// of scheduler.IdempotencyCache for exercising the handler's cache
// short-circuit without a live Redis connection.
type fakeHandlerIdempotencyCache struct {
	store map[string]scheduler.RunResult
}

func newFakeHandlerIdempotencyCache() *fakeHandlerIdempotencyCache {
	return &fakeHandlerIdempotencyCache{store: make(map[string]scheduler.RunResult)}
}

func (c *fakeHandlerIdempotencyCache) Get(_ context.Context, key string) (*scheduler.RunResult, bool, error) {
	v, ok := c.store[key]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *fakeHandlerIdempotencyCache) Set(_ context.Context, key string, result scheduler.RunResult, _ time.Duration) error {
	c.store[key] = result
	return nil
}

var _ scheduler.IdempotencyCache = (*fakeHandlerIdempotencyCache)(nil)
