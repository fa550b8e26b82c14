package scheduler

import (
	"fmt"

	appErrors "github.com/eduplan/adaptive-scheduler/pkg/errors"
	"go.uber.org/zap"
)

// ConstraintRegistry indexes the request's constraint list by teacher,
// category, and hardness so validators never have to scan the flat list.
type ConstraintRegistry struct {
	byTeacher   map[string][]Constraint
	byCategory  map[Category][]Constraint
	campusOnly  []Constraint
	hardOnly    []Constraint
	softOnly    []Constraint

	validCount   int
	invalidCount int
}

// NewConstraintRegistry ingests raw constraints, mapping each wire type to
// an internal category, validating its payload, and indexing it. A
// constraint whose type cannot be mapped is skipped and counted, never
// fatal. An invalid payload for a type that DOES map aborts the whole
// request with a validation error.
func NewConstraintRegistry(raw []Constraint, logger *zap.Logger) (*ConstraintRegistry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ConstraintRegistry{
		byTeacher:  make(map[string][]Constraint),
		byCategory: make(map[Category][]Constraint),
	}

	for _, c := range raw {
		category := c.Category
		if category == "" {
			mapped, ok := MapWireConstraintType(c.Type)
			if !ok {
				r.invalidCount++
				logger.Sugar().Warnw("skipping unmappable constraint type", "type", c.Type, "id", c.ID)
				continue
			}
			category = mapped
			c.Category = mapped
		}

		if err := ValidateConstraintValue(category, c.Value); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("invalid constraint payload for %q (id=%s)", c.Type, c.ID))
		}

		r.validCount++
		r.byCategory[category] = append(r.byCategory[category], c)
		if c.TeacherID != "" {
			r.byTeacher[c.TeacherID] = append(r.byTeacher[c.TeacherID], c)
		} else {
			r.campusOnly = append(r.campusOnly, c)
		}
		if category.IsHard() {
			r.hardOnly = append(r.hardOnly, c)
		} else {
			r.softOnly = append(r.softOnly, c)
		}
	}

	return r, nil
}

// TeacherConstraints returns every constraint (campus-wide or teacher
// specific) that applies to teacherID.
func (r *ConstraintRegistry) TeacherConstraints(teacherID string) []Constraint {
	out := append([]Constraint(nil), r.byTeacher[teacherID]...)
	return append(out, r.campusOnly...)
}

// TeacherConstraintsByCategory narrows TeacherConstraints to one category.
func (r *ConstraintRegistry) TeacherConstraintsByCategory(teacherID string, category Category) []Constraint {
	var out []Constraint
	for _, c := range r.TeacherConstraints(teacherID) {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// ByCategory returns every constraint (campus or teacher-scoped) in a
// category.
func (r *ConstraintRegistry) ByCategory(category Category) []Constraint {
	return r.byCategory[category]
}

// SoftConstraints returns every indexed soft constraint.
func (r *ConstraintRegistry) SoftConstraints() []Constraint { return r.softOnly }

// HardConstraints returns every indexed hard constraint.
func (r *ConstraintRegistry) HardConstraints() []Constraint { return r.hardOnly }

// CampusConstraints returns constraints with no teacher scope.
func (r *ConstraintRegistry) CampusConstraints() []Constraint { return r.campusOnly }

// HasCategory reports whether any constraint was indexed under category.
func (r *ConstraintRegistry) HasCategory(category Category) bool {
	return len(r.byCategory[category]) > 0
}

// HasTeacherConstraints reports whether teacherID has any constraints.
func (r *ConstraintRegistry) HasTeacherConstraints(teacherID string) bool {
	return len(r.byTeacher[teacherID]) > 0
}

// TeacherCountWithConstraints returns the number of distinct teachers that
// carry at least one teacher-scoped constraint.
func (r *ConstraintRegistry) TeacherCountWithConstraints() int {
	return len(r.byTeacher)
}

// Summary reports how many constraints were accepted vs. skipped during
// construction, useful for diagnostics and tests.
type RegistrySummary struct {
	Valid   int
	Invalid int
	ByCategory map[Category]int
}

// Summary returns a RegistrySummary snapshot.
func (r *ConstraintRegistry) Summary() RegistrySummary {
	byCat := make(map[Category]int, len(r.byCategory))
	for cat, list := range r.byCategory {
		byCat[cat] = len(list)
	}
	return RegistrySummary{Valid: r.validCount, Invalid: r.invalidCount, ByCategory: byCat}
}

// ValidateConstraintValue checks a constraint's payload against its
// category's schema, grounded on the original service's per-category
// validators.
func ValidateConstraintValue(category Category, value map[string]any) error {
	switch category {
	case TeacherTimePreference:
		return validateTimePreference(value)
	case TeacherRoomPreference:
		return validateRoomPreference(value)
	case TeacherScheduleCompactness:
		return validateScheduleCompactness(value)
	default:
		return nil
	}
}

func validateTimePreference(value map[string]any) error {
	for _, field := range []string{"preference", "days", "timeslotCodes"} {
		if _, ok := value[field]; !ok {
			return fmt.Errorf("time preference constraint missing required field: %s", field)
		}
	}
	pref, _ := value["preference"].(string)
	if pref != string(PreferencePrefer) && pref != string(PreferenceAvoid) && pref != string(PreferenceNeutral) {
		return fmt.Errorf("time preference must be PREFER, AVOID, or NEUTRAL")
	}
	if !nonEmptySlice(value["days"]) {
		return fmt.Errorf("time preference must include at least one day")
	}
	if !nonEmptySlice(value["timeslotCodes"]) {
		return fmt.Errorf("time preference must include at least one timeslot")
	}
	return nil
}

func validateRoomPreference(value map[string]any) error {
	pref, ok := value["preference"].(string)
	if !ok {
		return fmt.Errorf("room preference constraint missing required field: preference")
	}
	if pref != string(PreferencePrefer) && pref != string(PreferenceAvoid) {
		return fmt.Errorf("room preference must be PREFER or AVOID")
	}
	if !nonEmptySlice(value["roomIds"]) && !nonEmptySlice(value["buildingIds"]) {
		return fmt.Errorf("room preference must specify either roomIds or buildingIds")
	}
	return nil
}

func validateScheduleCompactness(value map[string]any) error {
	for _, field := range []string{"enabled", "maxGapsPerDay", "maxActiveDays", "maxConsecutiveSessions"} {
		if _, ok := value[field]; !ok {
			return fmt.Errorf("schedule compactness constraint missing required field: %s", field)
		}
	}
	if _, ok := value["enabled"].(bool); !ok {
		return fmt.Errorf("schedule compactness 'enabled' must be boolean")
	}
	for _, field := range []string{"maxGapsPerDay", "maxActiveDays", "maxConsecutiveSessions"} {
		n, ok := asNonNegativeInt(value[field])
		if !ok || n < 0 {
			return fmt.Errorf("schedule compactness %q must be non-negative integer", field)
		}
	}
	return nil
}

func nonEmptySlice(v any) bool {
	switch s := v.(type) {
	case []string:
		return len(s) > 0
	case []any:
		return len(s) > 0
	default:
		return false
	}
}

func asNonNegativeInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	default:
		return 0, false
	}
}
