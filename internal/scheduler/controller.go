package scheduler

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// ControllerConfig are the run-level knobs the controller reads once at
// startup; these come from the request and from pkg/config's SchedulerConfig.
type ControllerConfig struct {
	MaxGenerations     int
	Deadline           time.Duration
	MaxRestarts        int
	EnableAdaptive     bool
	PenaltyOptimizerN  int // reserved for future call-budgeted search; grid search ignores it today.
	RandomSeed         int64
}

// RunMetrics is the supplemented run-level telemetry attached to a finished
// controller run, covering every adaptive intervention taken.
type RunMetrics struct {
	TotalGenerations          int
	TotalPenaltyOptimizations int
	TotalParameterAdaptations int
	TotalPopulationRestarts   int
	FinalFitness              float64
	FinalDiversity            float64
	BestGeneration            int
	ExecutionTime             time.Duration
	ConvergenceHistory        []ConvergenceMetrics
	AdaptationSummary         AdaptationSummary
}

// RunResult is everything a caller needs to render both scheduler endpoints'
// responses.
type RunResult struct {
	BestSchedule Chromosome
	BestFitness  float64
	BestReport   FitnessReport
	Metrics      RunMetrics
}

// Controller runs the three-tier adaptive genetic search: Tier 1 reshapes
// the penalty landscape, Tier 2 adapts GA parameters, Tier 3 restarts the
// population while preserving elites. Tiers 1 and 2 trigger on stagnation
// severity; Tier 3 additionally requires max_restarts headroom and a
// minimum stall length.
type Controller struct {
	input      InputData
	logger     *zap.Logger
	ga         *GeneticAlgorithm
	evaluator  *FitnessEvaluator
	penalties  *PenaltyManager
	optimizer  *PenaltyOptimizer
	params     *ParameterManager
	convergence *ConvergenceDetector
	rng        *rand.Rand
	cfg        ControllerConfig

	restartCount            int
	penaltyOptimizationCount int
	parameterAdaptationCount int
	convergenceHistory      []ConvergenceMetrics
}

// NewController wires the registry, penalty manager, genetic algorithm,
// convergence tracker, and parameter manager together for one scheduling
// request.
func NewController(input InputData, registry *ConstraintRegistry, penalties *PenaltyManager, cfg ControllerConfig, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	ga := NewGeneticAlgorithm(input, rng)
	ctx := NewConstraintContext(input)
	evaluator := NewFitnessEvaluator(ctx, NewValidatorSet(), penalties, registry)

	initial := DefaultGeneticParams()
	chromosomeLength := input.ChromosomeLength()
	params := NewParameterManager(initial, chromosomeLength)

	return &Controller{
		input:       input,
		logger:      logger,
		ga:          ga,
		evaluator:   evaluator,
		penalties:   penalties,
		optimizer:   NewPenaltyOptimizer(penalties),
		params:      params,
		convergence: NewConvergenceDetector(chromosomeLength),
		rng:         rng,
		cfg:         cfg,
	}
}

// Run drives the adaptive loop until a perfect solution, the generation
// cap, or the deadline is reached, whichever comes first.
func (c *Controller) Run(ctx context.Context) RunResult {
	start := time.Now()

	populationSize := c.params.CalculateOptimalPopulationSize()
	c.params.current.PopulationSize = populationSize
	population := c.ga.InitializePopulation(populationSize)

	var (
		bestSolution   Chromosome
		bestFitness    = math.Inf(1)
		bestReport     FitnessReport
		bestGeneration int
	)

	generation := 0
	for generation < c.cfg.MaxGenerations {
		select {
		case <-ctx.Done():
			generation = c.finalizeGeneration(generation)
			goto done
		default:
		}

		fitnessScores := make([]float64, len(population))
		reports := make([]FitnessReport, len(population))
		for i, chromosome := range population {
			report := c.evaluator.Evaluate(chromosome)
			reports[i] = report
			fitnessScores[i] = report.Fitness
		}

		currentBest := minFloat(fitnessScores)
		if currentBest < bestFitness {
			bestFitness = currentBest
			bestIdx := indexOfMin(fitnessScores)
			bestSolution = population[bestIdx].Clone()
			bestReport = reports[bestIdx]
			bestGeneration = generation
		}

		if bestFitness == 0 {
			c.logger.Info("scheduler found a perfect solution", zap.Int("generation", generation))
			break
		}
		if time.Since(start) > c.cfg.Deadline {
			c.logger.Info("scheduler deadline reached", zap.Int("generation", generation))
			break
		}

		if c.cfg.EnableAdaptive {
			metrics := c.convergence.CheckConvergence(population, fitnessScores)
			c.convergenceHistory = append(c.convergenceHistory, metrics)
			severity := c.convergence.GetStagnationSeverity()

			if severity == StagnationModerate || severity == StagnationSevere {
				c.triggerPenaltyOptimization()
			}

			if severity == StagnationMild || severity == StagnationModerate || severity == StagnationSevere {
				_, changed := c.params.AdaptParameters(metrics, severity, generation)
				if changed {
					c.parameterAdaptationCount++
				}
			}

			if severity == StagnationSevere && c.restartCount < c.cfg.MaxRestarts && metrics.GenerationsWithoutImprovement > 100 {
				population = c.intelligentRestart(population, fitnessScores, bestSolution)
				c.convergence.Reset()
				continue
			}
		}

		population = c.ga.Evolve(population, fitnessScores, c.params.Current())
		generation++
	}

done:
	return RunResult{
		BestSchedule: bestSolution,
		BestFitness:  bestFitness,
		BestReport:   bestReport,
		Metrics: RunMetrics{
			TotalGenerations:          generation,
			TotalPenaltyOptimizations: c.penaltyOptimizationCount,
			TotalParameterAdaptations: c.parameterAdaptationCount,
			TotalPopulationRestarts:   c.restartCount,
			FinalFitness:              bestFitness,
			FinalDiversity:            c.lastDiversity(),
			BestGeneration:            bestGeneration,
			ExecutionTime:             time.Since(start),
			ConvergenceHistory:        c.convergenceHistory,
			AdaptationSummary:         c.params.AdaptationSummary(),
		},
	}
}

func (c *Controller) finalizeGeneration(generation int) int {
	c.logger.Info("scheduler run cancelled", zap.Int("generation", generation))
	return generation
}

// triggerPenaltyOptimization is Tier 1: search for better soft-penalty
// values and, if the result still satisfies the safety gate, apply it.
func (c *Controller) triggerPenaltyOptimization() {
	result := c.optimizer.OptimizePenalties()
	if result.OptimalParams == nil {
		c.logger.Warn("penalty optimization produced no safe candidate, keeping current penalties")
		return
	}
	if err := c.optimizer.ApplyOptimalPenalties(result); err != nil {
		c.logger.Warn("penalty optimization result rejected", zap.Error(err))
		return
	}
	c.penaltyOptimizationCount++
}

// intelligentRestart is Tier 3: keep the fittest 10% (at least one, at most
// five) of the current population plus the global best, then backfill with
// fresh random chromosomes at a freshly computed population size.
func (c *Controller) intelligentRestart(population []Chromosome, fitness []float64, best Chromosome) []Chromosome {
	c.restartCount++
	c.params.ResetToBaseline()
	newParams := c.params.Current()

	eliteCount := maxInt(1, minInt(5, int(0.1*float64(len(population)))))
	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sortByFitness(order, fitness)

	next := make([]Chromosome, 0, newParams.PopulationSize)
	for i := 0; i < eliteCount && i < len(order); i++ {
		next = append(next, population[order[i]].Clone())
	}
	if best != nil && len(next) < eliteCount+1 {
		next = append(next, best.Clone())
	}
	for len(next) < newParams.PopulationSize {
		fresh := c.ga.InitializePopulation(1)
		next = append(next, fresh[0])
	}

	c.logger.Info("population restarted",
		zap.Int("newSize", newParams.PopulationSize),
		zap.Int("elitePreserved", eliteCount))

	return next
}

func (c *Controller) lastDiversity() float64 {
	if len(c.convergenceHistory) == 0 {
		return 0
	}
	return c.convergenceHistory[len(c.convergenceHistory)-1].PopulationDiversity
}

func indexOfMin(values []float64) int {
	best := 0
	for i, v := range values[1:] {
		if v < values[best] {
			best = i + 1
		}
	}
	return best
}
