package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstraintRegistrySkipsUnmappableType(t *testing.T) {
	raw := []Constraint{
		{ID: "c1", Type: "Not A Real Type", TeacherID: "teacher-1"},
	}
	registry, err := NewConstraintRegistry(raw, testLogger())
	require.NoError(t, err)
	summary := registry.Summary()
	assert.Equal(t, 0, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)
}

func TestNewConstraintRegistryRejectsInvalidPayload(t *testing.T) {
	raw := []Constraint{
		{ID: "c1", Type: "Teacher Time Preference", TeacherID: "teacher-1", Value: map[string]any{
			"preference": "MAYBE",
		}},
	}
	_, err := NewConstraintRegistry(raw, testLogger())
	require.Error(t, err)
}

func TestNewConstraintRegistryIndexesByTeacherAndCategory(t *testing.T) {
	raw := []Constraint{
		{ID: "c1", Type: "Teacher Time Preference", TeacherID: "teacher-1", Value: map[string]any{
			"preference":    "AVOID",
			"days":          []string{"Monday"},
			"timeslotCodes": []string{"T1"},
		}},
		{ID: "c2", Type: "Efficient Room Utilization", Value: map[string]any{}},
	}
	registry, err := NewConstraintRegistry(raw, testLogger())
	require.NoError(t, err)

	assert.True(t, registry.HasTeacherConstraints("teacher-1"))
	assert.False(t, registry.HasTeacherConstraints("teacher-2"))
	assert.True(t, registry.HasCategory(TeacherTimePreference))
	assert.Len(t, registry.CampusConstraints(), 1)
	assert.Equal(t, 1, registry.TeacherCountWithConstraints())
}
