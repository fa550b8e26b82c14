package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduplan/adaptive-scheduler/internal/metrics"
	"github.com/eduplan/adaptive-scheduler/internal/scheduler"
	appErrors "github.com/eduplan/adaptive-scheduler/pkg/errors"
	"github.com/eduplan/adaptive-scheduler/pkg/export"
	"github.com/eduplan/adaptive-scheduler/pkg/response"
)

// SchedulerHandler exposes the timetable generation and evaluation
// endpoints over HTTP.
type SchedulerHandler struct {
	logger     *zap.Logger
	metrics    *metrics.Service
	validate   *validator.Validate
	dispatcher *scheduler.Dispatcher
	cache      scheduler.IdempotencyCache
	history    *scheduler.HistoryRepository
	exporter   *export.PDFExporter

	maxGenerations  int
	defaultDeadline time.Duration
	maxDeadline     time.Duration
	maxRestarts     int
	randomSeed      int64
	idempotencyTTL  time.Duration
}

// SchedulerHandlerConfig carries the runtime knobs the handler needs out of
// config.SchedulerConfig, kept separate so the handler package never
// imports pkg/config directly.
type SchedulerHandlerConfig struct {
	MaxGenerations  int
	DefaultDeadline time.Duration
	MaxDeadline     time.Duration
	MaxRestarts     int
	RandomSeed      int64
	IdempotencyTTL  time.Duration
}

// NewSchedulerHandler wires a scheduler handler. cache and history are both
// optional: a nil cache disables idempotency short-circuiting, a nil
// history disables persistence.
func NewSchedulerHandler(logger *zap.Logger, m *metrics.Service, dispatcher *scheduler.Dispatcher, cache scheduler.IdempotencyCache, history *scheduler.HistoryRepository, cfg SchedulerHandlerConfig) *SchedulerHandler {
	return &SchedulerHandler{
		logger:          logger,
		metrics:         m,
		validate:        validator.New(),
		dispatcher:      dispatcher,
		cache:           cache,
		history:         history,
		exporter:        export.NewPDFExporter(),
		maxGenerations:  cfg.MaxGenerations,
		defaultDeadline: cfg.DefaultDeadline,
		maxDeadline:     cfg.MaxDeadline,
		maxRestarts:     cfg.MaxRestarts,
		randomSeed:      cfg.RandomSeed,
		idempotencyTTL:  cfg.IdempotencyTTL,
	}
}

// Generate handles POST /scheduler: runs the adaptive genetic search over
// the submitted courses/teachers/rooms/constraints and returns the best
// schedule found before the deadline or generation cap.
//
// @Summary Generate a weekly timetable
// @Tags scheduler
// @Accept json
// @Produce json
// @Param request body scheduler.GenerateRequest true "scheduling input"
// @Success 201 {object} response.Envelope{data=scheduler.GenerateResponseData}
// @Router /scheduler [post]
func (h *SchedulerHandler) Generate(c *gin.Context) {
	var req scheduler.GenerateRequest
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read request body"))
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduling request"))
		return
	}

	idempotencyKey := hashBody(body)
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(c.Request.Context(), idempotencyKey); err == nil && ok {
			h.metrics.RecordCacheOperation(true)
			response.Created(c, toGenerateResponseData(*cached, false))
			return
		} else if h.metrics != nil {
			h.metrics.RecordCacheOperation(false)
		}
	}

	input := req.ToInputData()
	registry, err := scheduler.NewConstraintRegistry(input.Constraints, h.logger)
	if err != nil {
		response.Error(c, err)
		return
	}

	penalties, err := scheduler.NewPenaltyManager(len(input.Courses), len(input.Teachers), registry)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrDominationBound.Code, appErrors.ErrDominationBound.Status, err.Error()))
		return
	}

	deadline := h.defaultDeadline
	if req.DeadlineSeconds > 0 {
		deadline = time.Duration(req.DeadlineSeconds) * time.Second
	}
	if deadline > h.maxDeadline {
		deadline = h.maxDeadline
	}
	maxGenerations := h.maxGenerations
	if req.MaxGenerations > 0 && req.MaxGenerations < maxGenerations {
		maxGenerations = req.MaxGenerations
	}

	cfg := scheduler.ControllerConfig{
		MaxGenerations:    maxGenerations,
		Deadline:          deadline,
		MaxRestarts:       h.maxRestarts,
		EnableAdaptive:    true,
		PenaltyOptimizerN: 12,
		RandomSeed:        h.randomSeed,
	}

	reqCtx, cancel := context.WithTimeout(c.Request.Context(), deadline+5*time.Second)
	defer cancel()

	result, err := h.dispatcher.Submit(reqCtx, func(runCtx context.Context) scheduler.RunResult {
		controller := scheduler.NewController(input, registry, penalties, cfg, h.logger)
		return controller.Run(runCtx)
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "scheduling run did not complete"))
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveSchedulerRun(result.BestReport.IsFeasible, result.Metrics.TotalGenerations, result.Metrics.TotalPopulationRestarts, result.Metrics.ExecutionTime)
	}
	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), idempotencyKey, result, h.idempotencyTTL); err != nil {
			h.logger.Warn("failed to cache scheduler result", zap.Error(err))
		}
	}
	if h.history != nil {
		if err := h.history.Record(c.Request.Context(), result); err != nil {
			h.logger.Warn("failed to record scheduler run history", zap.Error(err))
		}
	}

	data := toGenerateResponseData(result, c.Query("debug") == "true")
	if data.RunMetrics != nil {
		bounds := penalties.BoundsAnalysis()
		data.Bounds = &bounds
	}
	response.Created(c, data)
}

// Evaluate handles POST /scheduler/evaluate: scores a caller-supplied
// schedule against the same constraint machinery Generate uses, without
// running any search.
//
// @Summary Evaluate a proposed timetable
// @Tags scheduler
// @Accept json
// @Produce json
// @Param request body scheduler.EvaluateRequest true "schedule to evaluate"
// @Success 200 {object} response.Envelope{data=scheduler.EvaluateResponseData}
// @Router /scheduler/evaluate [post]
func (h *SchedulerHandler) Evaluate(c *gin.Context) {
	var req scheduler.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation request"))
		return
	}

	start := time.Now()
	input := req.ToInputData()
	registry, err := scheduler.NewConstraintRegistry(input.Constraints, h.logger)
	if err != nil {
		response.Error(c, err)
		return
	}
	penalties, err := scheduler.NewPenaltyManager(len(input.Courses), len(input.Teachers), registry)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrDominationBound.Code, appErrors.ErrDominationBound.Status, err.Error()))
		return
	}

	ctx := scheduler.NewConstraintContext(input)
	evaluator := scheduler.NewFitnessEvaluator(ctx, scheduler.NewValidatorSet(), penalties, registry)
	report := evaluator.Evaluate(req.ToChromosome())

	if c.Query("format") == "pdf" {
		pdf, err := h.exporter.Render(reportDataset(report), "timetable fitness report")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not render report"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="fitness-report.pdf"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
		return
	}

	response.JSON(c, http.StatusOK, scheduler.EvaluateResponseData{
		Summary: scheduler.EvaluateSummary{
			IsFeasible:          report.IsFeasible,
			TotalHardViolations: report.TotalHardViolations,
			TotalSoftPenalty:    report.TotalSoftPenalty,
			TotalViolations:     report.TotalViolations,
			EvaluationTime:      time.Since(start).Seconds(),
		},
		Violations:    report.Violations,
		Categories:    report.Categories,
		FitnessVector: report.FitnessVector,
	}, nil)
}

func toGenerateResponseData(result scheduler.RunResult, includeDebug bool) scheduler.GenerateResponseData {
	data := scheduler.GenerateResponseData{
		BestSchedule: scheduler.FromChromosome(result.BestSchedule),
		BestFitness:  result.BestFitness,
		Report:       result.BestReport,
		TimeTaken:    result.Metrics.ExecutionTime.Seconds(),
	}
	if includeDebug {
		metrics := result.Metrics
		data.RunMetrics = &metrics
	}
	return data
}

func reportDataset(report scheduler.FitnessReport) export.Dataset {
	categories := make([]string, 0, len(report.Categories))
	for category := range report.Categories {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	rows := make([]map[string]string, 0, len(categories))
	for _, category := range categories {
		summary := report.Categories[scheduler.Category(category)]
		rows = append(rows, map[string]string{
			"category": category,
			"count":    fmt.Sprintf("%d", summary.Count),
			"penalty":  fmt.Sprintf("%.2f", summary.TotalPenalty),
		})
	}
	return export.Dataset{
		Headers: []string{"category", "count", "penalty"},
		Rows:    rows,
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
