package scheduler

import "sort"

// ConstraintViolation is one reported violation, enriched with the penalty
// it contributed, for API and report consumption.
type ConstraintViolation struct {
	Category  Category  `json:"category"`
	Hardness  Hardness  `json:"hardness"`
	GeneIndex int       `json:"geneIndex"`
	Message   string    `json:"message"`
	Penalty   float64   `json:"penalty"`
}

// CategorySummary aggregates every violation found in one category.
type CategorySummary struct {
	Count        int                   `json:"count"`
	TotalPenalty float64               `json:"totalPenalty"`
	Violations   []ConstraintViolation `json:"violations"`
}

// FitnessReport is the full result of evaluating one chromosome: whether it
// is feasible, how costly it is, and every contributing violation.
type FitnessReport struct {
	Fitness            float64                     `json:"fitness"`
	TotalHardViolations int                         `json:"totalHardViolations"`
	TotalSoftPenalty    float64                     `json:"totalSoftPenalty"`
	TotalViolations     int                         `json:"totalViolations"`
	IsFeasible          bool                        `json:"isFeasible"`
	Violations          []ConstraintViolation       `json:"violations"`
	Categories          map[Category]*CategorySummary `json:"categories"`
	FitnessVector       []float64                   `json:"fitnessVector"`
}

// maxViolationsPerCategoryInReport caps the violations array included per
// category in the user-facing report.
const maxViolationsPerCategoryInReport = 5

// FitnessEvaluator scores one chromosome at a time against every registered
// validator, using the penalty manager to convert raw violation counts into
// the dominated hard/soft fitness value.
type FitnessEvaluator struct {
	ctx        *ConstraintContext
	validators *ValidatorSet
	penalties  *PenaltyManager
	registry   *ConstraintRegistry
}

// NewFitnessEvaluator wires a context, validator set, and penalty manager
// together. The context is reused (and Reset) across every Evaluate call.
func NewFitnessEvaluator(ctx *ConstraintContext, validators *ValidatorSet, penalties *PenaltyManager, registry *ConstraintRegistry) *FitnessEvaluator {
	return &FitnessEvaluator{ctx: ctx, validators: validators, penalties: penalties, registry: registry}
}

// Evaluate runs every gene and whole-schedule validator against chromosome,
// aggregates violations per category, and computes the dominated fitness
// value: fitness = totalHardPenalty + totalSoftPenalty, with
// totalHardPenalty alone always exceeding the maximum achievable
// totalSoftPenalty whenever at least one hard violation exists, the
// domination bound enforced at construction time by the penalty manager.
func (e *FitnessEvaluator) Evaluate(chromosome Chromosome) FitnessReport {
	e.ctx.Reset()

	categories := make(map[Category]*CategorySummary)
	ensure := func(cat Category) *CategorySummary {
		if s, ok := categories[cat]; ok {
			return s
		}
		s := &CategorySummary{}
		categories[cat] = s
		return s
	}

	record := func(v Violation) {
		penalty := e.penalties.GetPenalty(v.Category, 1, severityFactorOrDefault(v.Severity))
		cv := ConstraintViolation{Category: v.Category, Hardness: v.Category.Hardness(), GeneIndex: v.GeneIndex, Message: v.Message, Penalty: penalty}
		summary := ensure(v.Category)
		summary.Count++
		summary.TotalPenalty += penalty
		if len(summary.Violations) < maxViolationsPerCategoryInReport {
			summary.Violations = append(summary.Violations, cv)
		}
	}

	for geneIdx, item := range chromosome {
		for _, gv := range e.validators.GeneValidators {
			for _, v := range gv.ValidateGene(e.ctx, item, geneIdx, e.registry) {
				record(v)
			}
		}
	}
	for _, sv := range e.validators.ScheduleValidators {
		for _, v := range sv.ValidateSchedule(e.ctx, chromosome, e.registry) {
			record(v)
		}
	}

	report := FitnessReport{Categories: categories}
	for _, cat := range HardCategories {
		if s, ok := categories[cat]; ok {
			report.TotalHardViolations += s.Count
		}
	}
	for _, cat := range SoftCategories {
		if s, ok := categories[cat]; ok {
			report.TotalSoftPenalty += s.TotalPenalty
		}
	}

	var hardPenalty float64
	for _, cat := range HardCategories {
		if s, ok := categories[cat]; ok {
			hardPenalty += s.TotalPenalty
		}
	}

	report.Fitness = hardPenalty + report.TotalSoftPenalty
	report.IsFeasible = report.TotalHardViolations == 0
	report.FitnessVector = e.buildFitnessVector(categories, report.TotalHardViolations, report.TotalSoftPenalty)

	for _, cat := range append(append([]Category{}, HardCategories...), SoftCategories...) {
		if s, ok := categories[cat]; ok {
			for _, v := range s.Violations {
				report.Violations = append(report.Violations, v)
			}
			report.TotalViolations += s.Count
		}
	}
	sort.Slice(report.Violations, func(i, j int) bool { return report.Violations[i].GeneIndex < report.Violations[j].GeneIndex })

	return report
}

// buildFitnessVector starts with [totalHardViolations, totalSoftPenalty],
// then lays out one value per category in fixed HardCategories-then-
// SoftCategories order, so downstream consumers can index the vector
// positionally. Hard categories contribute their violation count, soft
// categories their summed penalty.
func (e *FitnessEvaluator) buildFitnessVector(categories map[Category]*CategorySummary, totalHardViolations int, totalSoftPenalty float64) []float64 {
	vector := make([]float64, 0, 2+len(HardCategories)+len(SoftCategories))
	vector = append(vector, float64(totalHardViolations), totalSoftPenalty)
	for _, cat := range HardCategories {
		if s, ok := categories[cat]; ok {
			vector = append(vector, float64(s.Count))
		} else {
			vector = append(vector, 0)
		}
	}
	for _, cat := range SoftCategories {
		if s, ok := categories[cat]; ok {
			vector = append(vector, s.TotalPenalty)
		} else {
			vector = append(vector, 0)
		}
	}
	return vector
}

func severityFactorOrDefault(severity float64) float64 {
	if severity <= 0 {
		return 1.0
	}
	return severity
}
