package scheduler

import "math"

// penaltyDimension is one tunable axis of the penalty search space: a soft
// category's base penalty, bounded independently per category.
type penaltyDimension struct {
	Category Category
	Low      float64
	High     float64
}

// penaltySearchSpace holds six dimensions, one bound pair per soft category;
// it has no dimension for student consecutive movement.
var penaltySearchSpace = []penaltyDimension{
	{RoomCapacityOverflow, 1.0, 50.0},
	{TeacherTimePreference, 1.0, 20.0},
	{TeacherRoomPreference, 1.0, 15.0},
	{TeacherConsecutiveMovement, 1.0, 25.0},
	{ECTSPriorityViolation, 1.0, 10.0},
	{TeacherScheduleCompactness, 1.0, 20.0},
}

// gridStepsPerDimension is how many points optimize samples in each
// dimension. There is no Bayesian/Gaussian-process optimizer available, so
// the search uses a deterministic coordinate grid instead.
const gridStepsPerDimension = 3

// OptimizationResult is the outcome of one penalty-tuning pass.
type OptimizationResult struct {
	OptimalParams map[Category]float64
	BestScore     float64
	TrialCount    int
}

// PenaltyOptimizer searches for soft-penalty base values that balance
// category magnitudes without ever letting their combined worst case reach
// the hard-penalty floor.
type PenaltyOptimizer struct {
	penalties *PenaltyManager
}

// NewPenaltyOptimizer wires an optimizer to the live penalty manager it will
// mutate in place once a result passes validation.
func NewPenaltyOptimizer(penalties *PenaltyManager) *PenaltyOptimizer {
	return &PenaltyOptimizer{penalties: penalties}
}

// OptimizePenalties runs a coordinate grid search over the soft-penalty
// search space, scoring each candidate by how close it keeps the
// configuration to a balanced, moderate magnitude (lower variance, mean
// near 10.0) while rejecting anything that would violate the safety gate.
func (o *PenaltyOptimizer) OptimizePenalties() OptimizationResult {
	best := OptimizationResult{BestScore: math.Inf(1)}

	var walk func(dimIdx int, current map[Category]float64)
	walk = func(dimIdx int, current map[Category]float64) {
		if dimIdx == len(penaltySearchSpace) {
			best.TrialCount++
			if !o.validateSafetyConstraints(current) {
				return
			}
			score := o.objective(current)
			if score < best.BestScore {
				best.BestScore = score
				best.OptimalParams = cloneParams(current)
			}
			return
		}
		dim := penaltySearchSpace[dimIdx]
		step := (dim.High - dim.Low) / float64(gridStepsPerDimension-1)
		for i := 0; i < gridStepsPerDimension; i++ {
			current[dim.Category] = dim.Low + step*float64(i)
			walk(dimIdx+1, current)
		}
	}
	walk(0, make(map[Category]float64, len(penaltySearchSpace)))

	return best
}

// validateSafetyConstraints rejects any candidate whose individual values
// fall outside its dimension's bounds, or whose pessimistic combined soft
// total (sum × 10, mirroring the upstream safety estimate) would reach the
// hard-penalty floor.
func (o *PenaltyOptimizer) validateSafetyConstraints(params map[Category]float64) bool {
	sum := 0.0
	for _, dim := range penaltySearchSpace {
		v, ok := params[dim.Category]
		if !ok {
			return false
		}
		if v < dim.Low || v > dim.High || v > o.penalties.MaxSoftPenalty {
			return false
		}
		sum += v
	}
	return sum*10 < o.penalties.MinHardPenalty
}

// objective favors balanced, moderate-magnitude configurations: low
// variance across categories and a mean close to 10.0.
func (o *PenaltyOptimizer) objective(params map[Category]float64) float64 {
	values := make([]float64, 0, len(params))
	for _, dim := range penaltySearchSpace {
		values = append(values, params[dim.Category])
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance) + math.Abs(mean-10.0)
}

// ApplyOptimalPenalties pushes a validated result into the live penalty
// manager. It refuses to apply an unsafe result rather than silently
// clamping it.
func (o *PenaltyOptimizer) ApplyOptimalPenalties(result OptimizationResult) error {
	if !o.validateSafetyConstraints(result.OptimalParams) {
		return errSafetyViolation
	}
	for cat, value := range result.OptimalParams {
		config := o.penalties.GetPenaltyConfig(cat)
		if config == nil {
			continue
		}
		updated := *config
		updated.BasePenalty = value
		if err := o.penalties.UpdatePenaltyConfig(cat, updated); err != nil {
			return err
		}
	}
	return nil
}

func cloneParams(params map[Category]float64) map[Category]float64 {
	out := make(map[Category]float64, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

var errSafetyViolation = errOptimizer("optimized penalties violate the hard/soft safety gate")

type errOptimizer string

func (e errOptimizer) Error() string { return string(e) }
