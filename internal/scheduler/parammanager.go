package scheduler

import "math"

// AdaptationRecord is one entry in the parameter manager's history, kept
// for the supplemented adaptation-summary debug endpoint.
type AdaptationRecord struct {
	Generation      int
	TriggerReason   StagnationSeverity
	OldParams       GeneticParams
	NewParams       GeneticParams
	DiversityBefore float64
}

// ParameterManager adapts GeneticParams between generations in response to
// stagnation severity, subject to a cooldown that severe stagnation
// bypasses.
type ParameterManager struct {
	initial GeneticParams
	current GeneticParams

	chromosomeLength int

	lastAdaptationGeneration int
	adaptationCooldown       int

	minPopulationSize, maxPopulationSize             int
	minGeneMutationRate, maxGeneMutationRate         float64
	minChromosomeMutationRate, maxChromosomeMutationRate float64
	minTournamentSize, maxTournamentSize             int
	minElitismCount, maxElitismCount                 int

	history []AdaptationRecord
}

// NewParameterManager seeds bounds from chromosomeLength, matching the
// Goldberg & Deb scaling law used for population sizing.
func NewParameterManager(initial GeneticParams, chromosomeLength int) *ParameterManager {
	m := &ParameterManager{
		initial:                  initial,
		current:                  initial,
		chromosomeLength:         chromosomeLength,
		lastAdaptationGeneration: -1,
		adaptationCooldown:       50,
	}
	m.calculateParameterBounds()
	return m
}

func (m *ParameterManager) calculateParameterBounds() {
	length := m.chromosomeLength
	if length < 1 {
		length = 1
	}
	m.minPopulationSize = maxInt(20, int(math.Log2(float64(length))*5))
	m.maxPopulationSize = minInt(500, length*2)
	if m.maxPopulationSize < m.minPopulationSize {
		m.maxPopulationSize = m.minPopulationSize
	}

	m.minGeneMutationRate = 0.001
	m.maxGeneMutationRate = 0.5
	m.minChromosomeMutationRate = 0.05
	m.maxChromosomeMutationRate = 0.8

	m.minTournamentSize = 2
	m.maxTournamentSize = minInt(7, maxInt(3, m.current.PopulationSize/10))

	m.minElitismCount = maxInt(1, int(0.05*float64(m.current.PopulationSize)))
	m.maxElitismCount = maxInt(2, int(0.2*float64(m.current.PopulationSize)))
}

// Current returns the live parameter set.
func (m *ParameterManager) Current() GeneticParams { return m.current }

// CalculateOptimalPopulationSize applies the statistical-confidence and
// log-scaling heuristics and clamps the result to the manager's bounds.
func (m *ParameterManager) CalculateOptimalPopulationSize() int {
	const confidenceIntervalParam = 0.05
	statisticalSize := int((1 + 1/confidenceIntervalParam) * float64(m.chromosomeLength+2))
	logSize := int(math.Log2(float64(maxInt(m.chromosomeLength, 1))) * 10)

	optimal := maxInt(logSize, statisticalSize)
	optimal = maxInt(m.minPopulationSize, minInt(m.maxPopulationSize, optimal))
	return optimal
}

// AdaptParameters adjusts current parameters for the given stagnation
// severity, honoring the cooldown window (bypassed for severe stagnation).
// Returns the (possibly unchanged) current parameters and whether anything
// changed.
func (m *ParameterManager) AdaptParameters(metrics ConvergenceMetrics, severity StagnationSeverity, generation int) (GeneticParams, bool) {
	if severity != StagnationSevere && m.lastAdaptationGeneration >= 0 && generation-m.lastAdaptationGeneration < m.adaptationCooldown {
		return m.current, false
	}

	old := m.current
	var changed bool
	switch severity {
	case StagnationMild:
		changed = m.mildAdaptation(metrics)
	case StagnationModerate:
		changed = m.moderateAdaptation(metrics)
	case StagnationSevere:
		changed = m.severeAdaptation(metrics)
	}

	if changed {
		m.lastAdaptationGeneration = generation
		m.history = append(m.history, AdaptationRecord{
			Generation:      generation,
			TriggerReason:   severity,
			OldParams:       old,
			NewParams:       m.current,
			DiversityBefore: metrics.PopulationDiversity,
		})
	}
	return m.current, changed
}

func (m *ParameterManager) mildAdaptation(metrics ConvergenceMetrics) bool {
	if metrics.PopulationDiversity >= 0.3 {
		return false
	}
	changed := false
	if v := math.Min(m.maxGeneMutationRate, m.current.GeneMutationRate*1.2); v != m.current.GeneMutationRate {
		m.current.GeneMutationRate = v
		changed = true
	}
	if v := math.Min(m.maxChromosomeMutationRate, m.current.ChromosomeMutationRate*1.1); v != m.current.ChromosomeMutationRate {
		m.current.ChromosomeMutationRate = v
		changed = true
	}
	return changed
}

func (m *ParameterManager) moderateAdaptation(metrics ConvergenceMetrics) bool {
	changed := false
	if v := math.Min(m.maxGeneMutationRate, m.current.GeneMutationRate*1.5); v != m.current.GeneMutationRate {
		m.current.GeneMutationRate = v
		changed = true
	}
	if v := math.Min(m.maxChromosomeMutationRate, m.current.ChromosomeMutationRate*1.3); v != m.current.ChromosomeMutationRate {
		m.current.ChromosomeMutationRate = v
		changed = true
	}

	var newTournament int
	if metrics.PopulationDiversity < 0.2 {
		newTournament = maxInt(m.minTournamentSize, m.current.TournamentSize-1)
	} else {
		newTournament = minInt(m.maxTournamentSize, m.current.TournamentSize+1)
	}
	if newTournament != m.current.TournamentSize {
		m.current.TournamentSize = newTournament
		changed = true
	}
	return changed
}

func (m *ParameterManager) severeAdaptation(metrics ConvergenceMetrics) bool {
	changed := false
	if v := math.Min(m.maxGeneMutationRate, m.current.GeneMutationRate*2.0); v != m.current.GeneMutationRate {
		m.current.GeneMutationRate = v
		changed = true
	}
	if v := math.Min(m.maxChromosomeMutationRate, m.current.ChromosomeMutationRate*1.5); v != m.current.ChromosomeMutationRate {
		m.current.ChromosomeMutationRate = v
		changed = true
	}
	if v := maxInt(m.minTournamentSize, m.current.TournamentSize-2); v != m.current.TournamentSize {
		m.current.TournamentSize = v
		changed = true
	}
	if v := minInt(m.maxElitismCount, m.current.ElitismCount+2); v != m.current.ElitismCount {
		m.current.ElitismCount = v
		changed = true
	}
	return changed
}

// ResetToBaseline restores conservative exploration settings and a freshly
// sized population, used when the controller performs an intelligent
// restart.
func (m *ParameterManager) ResetToBaseline() {
	optimal := m.CalculateOptimalPopulationSize()
	m.current = GeneticParams{
		PopulationSize:         optimal,
		GeneMutationRate:       m.initial.GeneMutationRate * 0.8,
		ChromosomeMutationRate: m.initial.ChromosomeMutationRate * 0.9,
		TournamentSize:         maxInt(3, minInt(5, optimal/15)),
		ElitismCount:           maxInt(2, int(0.1*float64(optimal))),
		Crossover:              m.initial.Crossover,
	}
	m.calculateParameterBounds()
}

// AdaptationSummary is the supplemented debug view of parameter adaptation
// history.
type AdaptationSummary struct {
	TotalAdaptations     int
	AdaptationsByTrigger map[StagnationSeverity]int
}

// AdaptationSummary reports how many adaptations occurred and under which
// trigger.
func (m *ParameterManager) AdaptationSummary() AdaptationSummary {
	summary := AdaptationSummary{AdaptationsByTrigger: make(map[StagnationSeverity]int)}
	for _, record := range m.history {
		summary.TotalAdaptations++
		summary.AdaptationsByTrigger[record.TriggerReason]++
	}
	return summary
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
