package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingDataValidatorFlagsUnknownReferences(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &missingDataValidator{}

	item := ScheduledItem{
		CourseID:        "no-such-course",
		TeacherID:       "no-such-teacher",
		StudentGroupIDs: []string{"no-such-group"},
		ClassroomID:     "no-such-room",
		TimeslotCode:    "no-such-slot",
		Day:             "Monday",
	}
	violations := v.ValidateGene(ctx, item, 0, nil)
	assert.Len(t, violations, 5)
	for _, viol := range violations {
		assert.Equal(t, MissingData, viol.Category)
	}
}

func TestMissingDataValidatorPassesValidGene(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &missingDataValidator{}
	item := ScheduledItem{
		CourseID:        "course-1",
		TeacherID:       "teacher-1",
		StudentGroupIDs: []string{"group-1"},
		ClassroomID:     "room-1",
		TimeslotCode:    "T1",
		Day:             "Monday",
	}
	assert.Empty(t, v.ValidateGene(ctx, item, 0, nil))
}

func TestInvalidSchedulingValidator(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &invalidSchedulingValidator{}

	badDay := ScheduledItem{CourseID: "course-1", Day: "Someday", SessionType: RoomLecture, TimeslotCode: "T1"}
	assert.Len(t, v.ValidateGene(ctx, badDay, 0, nil), 1)

	mismatch := ScheduledItem{CourseID: "course-1", Day: "Monday", SessionType: RoomLab, TimeslotCode: "T1"}
	assert.Len(t, v.ValidateGene(ctx, mismatch, 0, nil), 1)

	ok := ScheduledItem{CourseID: "course-1", Day: "Monday", SessionType: RoomLecture, TimeslotCode: "T1"}
	assert.Empty(t, v.ValidateGene(ctx, ok, 0, nil))
}

func TestUnassignedRoomValidator(t *testing.T) {
	v := &unassignedRoomValidator{}
	assert.Len(t, v.ValidateGene(nil, ScheduledItem{}, 0, nil), 1)
	assert.Empty(t, v.ValidateGene(nil, ScheduledItem{ClassroomID: "room-1"}, 0, nil))
}

func TestRoomTypeMismatchValidator(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &roomTypeMismatchValidator{}

	mismatch := ScheduledItem{ClassroomID: "room-1", SessionType: RoomLab}
	assert.Len(t, v.ValidateGene(ctx, mismatch, 0, nil), 1)

	match := ScheduledItem{ClassroomID: "room-1", SessionType: RoomLecture}
	assert.Empty(t, v.ValidateGene(ctx, match, 0, nil))
}

func TestTeacherWheelchairAccessValidator(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &teacherWheelchairAccessValidator{}

	needsAccessButRoomLacksIt := ScheduledItem{TeacherID: "teacher-2", ClassroomID: "room-1"}
	assert.Len(t, v.ValidateGene(ctx, needsAccessButRoomLacksIt, 0, nil), 1)

	accessibleRoom := ScheduledItem{TeacherID: "teacher-2", ClassroomID: "room-2"}
	assert.Empty(t, v.ValidateGene(ctx, accessibleRoom, 0, nil))

	noNeed := ScheduledItem{TeacherID: "teacher-1", ClassroomID: "room-1"}
	assert.Empty(t, v.ValidateGene(ctx, noNeed, 0, nil))
}

func TestStudentGroupWheelchairAccessValidator(t *testing.T) {
	input := sampleInput()
	input.StudentGroups[0].AccessibilityRequired = true
	ctx := NewConstraintContext(input)
	v := &studentGroupWheelchairAccessValidator{}

	needsAccessButRoomLacksIt := ScheduledItem{StudentGroupIDs: []string{"group-1"}, ClassroomID: "room-1"}
	assert.Len(t, v.ValidateGene(ctx, needsAccessButRoomLacksIt, 0, nil), 1)

	accessibleRoom := ScheduledItem{StudentGroupIDs: []string{"group-1"}, ClassroomID: "room-2"}
	assert.Empty(t, v.ValidateGene(ctx, accessibleRoom, 0, nil))
}

func TestRoomConflictValidatorFirstOccupantWins(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &roomConflictValidator{}
	item := ScheduledItem{ClassroomID: "room-1", Day: "Monday", TimeslotCode: "T1"}

	assert.Empty(t, v.ValidateGene(ctx, item, 0, nil))
	assert.Len(t, v.ValidateGene(ctx, item, 1, nil), 1)
}

func TestTeacherConflictValidatorFirstOccupantWins(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &teacherConflictValidator{}
	item := ScheduledItem{TeacherID: "teacher-1", Day: "Monday", TimeslotCode: "T1"}

	assert.Empty(t, v.ValidateGene(ctx, item, 0, nil))
	assert.Len(t, v.ValidateGene(ctx, item, 1, nil), 1)
}

func TestStudentGroupConflictValidatorPerGroup(t *testing.T) {
	ctx := NewConstraintContext(sampleInput())
	v := &studentGroupConflictValidator{}
	item := ScheduledItem{StudentGroupIDs: []string{"group-1", "group-2"}, Day: "Monday", TimeslotCode: "T1"}

	assert.Empty(t, v.ValidateGene(ctx, item, 0, nil))
	assert.Len(t, v.ValidateGene(ctx, item, 1, nil), 2, "both groups collide the second time")
}
