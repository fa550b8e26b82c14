package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPenaltyManager(t *testing.T) *PenaltyManager {
	t.Helper()
	registry, err := NewConstraintRegistry(nil, testLogger())
	require.NoError(t, err)
	pm, err := NewPenaltyManager(4, 2, registry)
	require.NoError(t, err)
	return pm
}

func TestNewPenaltyManagerSatisfiesDominationBound(t *testing.T) {
	pm := newTestPenaltyManager(t)
	assert.True(t, pm.ValidateMathematicalGuarantees())
	assert.Greater(t, pm.MinHardPenalty, pm.MaxSoftPenalty)

	bounds := pm.BoundsAnalysis()
	assert.Equal(t, pm.MinHardPenalty, bounds.MinHardPenalty)
}

func TestGetPenaltyHardAlwaysExceedsMaxSoft(t *testing.T) {
	pm := newTestPenaltyManager(t)
	hardPenalty := pm.GetPenalty(TeacherConflict, 1, 1.0)
	assert.GreaterOrEqual(t, hardPenalty, pm.MinHardPenalty)

	for _, cat := range SoftCategories {
		softPenalty := pm.GetPenalty(cat, 10, 1.0)
		assert.LessOrEqual(t, softPenalty, pm.MaxSoftPenalty, "category %s soft penalty must stay under the cap", cat)
	}
}

func TestUpdatePenaltyConfigRejectsUnsafeHardBase(t *testing.T) {
	pm := newTestPenaltyManager(t)
	err := pm.UpdatePenaltyConfig(TeacherConflict, PenaltyConfig{BasePenalty: 0.01, Multiplier: 1.0, Strategy: StrategyFixed})
	assert.Error(t, err)
	assert.True(t, pm.ValidateMathematicalGuarantees())
}

func TestUpdatePenaltyConfigCapsSoftMax(t *testing.T) {
	pm := newTestPenaltyManager(t)
	huge := pm.MaxSoftPenalty * 100
	err := pm.UpdatePenaltyConfig(RoomCapacityOverflow, PenaltyConfig{
		BasePenalty: 1.0,
		Multiplier:  1.0,
		MaxPenalty:  &huge,
		Strategy:    StrategyProportional,
	})
	require.NoError(t, err)
	cfg := pm.GetPenaltyConfig(RoomCapacityOverflow)
	require.NotNil(t, cfg)
	assert.LessOrEqual(t, *cfg.MaxPenalty, pm.MaxSoftPenalty)
}
