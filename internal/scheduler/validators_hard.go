package scheduler

import "fmt"

// missingDataValidator flags genes referencing an ID that doesn't resolve
// against the request's reference data — malformed input, not a scheduling
// failure proper.
type missingDataValidator struct{}

func (v *missingDataValidator) Category() Category { return MissingData }

func (v *missingDataValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	var out []Violation
	if _, ok := ctx.Course(item.CourseID); !ok {
		out = append(out, Violation{Category: MissingData, GeneIndex: geneIndex, Message: fmt.Sprintf("unknown course %q", item.CourseID), Severity: 1})
	}
	if _, ok := ctx.Teacher(item.TeacherID); !ok {
		out = append(out, Violation{Category: MissingData, GeneIndex: geneIndex, Message: fmt.Sprintf("unknown teacher %q", item.TeacherID), Severity: 1})
	}
	for _, gid := range item.StudentGroupIDs {
		if _, ok := ctx.StudentGroup(gid); !ok {
			out = append(out, Violation{Category: MissingData, GeneIndex: geneIndex, Message: fmt.Sprintf("unknown student group %q", gid), Severity: 1})
		}
	}
	if item.ClassroomID != "" {
		if _, ok := ctx.Room(item.ClassroomID); !ok {
			out = append(out, Violation{Category: MissingData, GeneIndex: geneIndex, Message: fmt.Sprintf("unknown room %q", item.ClassroomID), Severity: 1})
		}
	}
	if _, ok := ctx.Timeslot(item.TimeslotCode); !ok {
		out = append(out, Violation{Category: MissingData, GeneIndex: geneIndex, Message: fmt.Sprintf("unknown timeslot %q", item.TimeslotCode), Severity: 1})
	}
	return out
}

// invalidSchedulingValidator flags genes whose day/timeslot/session-type
// combination is structurally nonsensical regardless of anything else in
// the schedule.
type invalidSchedulingValidator struct{}

func (v *invalidSchedulingValidator) Category() Category { return InvalidScheduling }

func (v *invalidSchedulingValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	var out []Violation
	validDay := false
	for _, d := range ctx.Input.Days {
		if d == item.Day {
			validDay = true
			break
		}
	}
	if !validDay {
		out = append(out, Violation{Category: InvalidScheduling, GeneIndex: geneIndex, Message: fmt.Sprintf("day %q is not in the scheduling week", item.Day), Severity: 1})
	}

	course, ok := ctx.Course(item.CourseID)
	if ok && course.SessionType != "" && item.SessionType != "" && course.SessionType != item.SessionType {
		out = append(out, Violation{Category: InvalidScheduling, GeneIndex: geneIndex, Message: "gene session type diverges from its course's declared session type", Severity: 1})
	}
	return out
}

// unassignedRoomValidator flags sessions that require a physical room but
// carry no room assignment at all.
type unassignedRoomValidator struct{}

func (v *unassignedRoomValidator) Category() Category { return UnassignedRoom }

func (v *unassignedRoomValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	if item.ClassroomID == "" {
		return []Violation{{Category: UnassignedRoom, GeneIndex: geneIndex, Message: "session has no assigned room", Severity: 1}}
	}
	return nil
}

// roomTypeMismatchValidator flags a room whose type cannot host the
// session's required type (e.g. a lab session in a lecture hall).
type roomTypeMismatchValidator struct{}

func (v *roomTypeMismatchValidator) Category() Category { return RoomTypeMismatch }

func (v *roomTypeMismatchValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	if item.ClassroomID == "" {
		return nil
	}
	room, ok := ctx.Room(item.ClassroomID)
	if !ok {
		return nil
	}
	if item.SessionType != "" && room.Type != item.SessionType {
		return []Violation{{Category: RoomTypeMismatch, GeneIndex: geneIndex, Message: fmt.Sprintf("room %q is %s, session needs %s", item.ClassroomID, room.Type, item.SessionType), Severity: 1}}
	}
	return nil
}

// teacherWheelchairAccessValidator flags sessions whose teacher requires
// step-free access but whose assigned room lacks it.
type teacherWheelchairAccessValidator struct{}

func (v *teacherWheelchairAccessValidator) Category() Category { return TeacherWheelchairAccess }

func (v *teacherWheelchairAccessValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	if item.ClassroomID == "" {
		return nil
	}
	teacher, ok := ctx.Teacher(item.TeacherID)
	if !ok || !teacher.NeedsAccessibleRoom {
		return nil
	}
	room, ok := ctx.Room(item.ClassroomID)
	if ok && !room.WheelchairAccessible {
		return []Violation{{Category: TeacherWheelchairAccess, GeneIndex: geneIndex, Message: fmt.Sprintf("teacher %q needs wheelchair access, room %q has none", item.TeacherID, item.ClassroomID), Severity: 1}}
	}
	return nil
}

// studentGroupWheelchairAccessValidator is the student-group counterpart of
// teacherWheelchairAccessValidator.
type studentGroupWheelchairAccessValidator struct{}

func (v *studentGroupWheelchairAccessValidator) Category() Category { return StudentGroupWheelchairAccess }

func (v *studentGroupWheelchairAccessValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	if item.ClassroomID == "" {
		return nil
	}
	room, ok := ctx.Room(item.ClassroomID)
	if !ok || room.WheelchairAccessible {
		return nil
	}
	var out []Violation
	for _, gid := range item.StudentGroupIDs {
		group, ok := ctx.StudentGroup(gid)
		if ok && group.AccessibilityRequired {
			out = append(out, Violation{Category: StudentGroupWheelchairAccess, GeneIndex: geneIndex, Message: fmt.Sprintf("group %q needs wheelchair access, room %q has none", gid, item.ClassroomID), Severity: 1})
		}
	}
	return out
}

// roomConflictValidator is stateful: it claims the gene's room/day/slot cell
// in the shared context and flags every claim after the first.
type roomConflictValidator struct{}

func (v *roomConflictValidator) Category() Category { return RoomConflict }

func (v *roomConflictValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	if item.ClassroomID == "" {
		return nil
	}
	count := ctx.ClaimRoom(item.ClassroomID, item.Day, item.TimeslotCode)
	if count > 1 {
		return []Violation{{Category: RoomConflict, GeneIndex: geneIndex, Message: fmt.Sprintf("room %q double-booked on %s at %s", item.ClassroomID, item.Day, item.TimeslotCode), Severity: 1}}
	}
	return nil
}

// teacherConflictValidator is stateful: same semantics as roomConflictValidator
// but keyed by teacher.
type teacherConflictValidator struct{}

func (v *teacherConflictValidator) Category() Category { return TeacherConflict }

func (v *teacherConflictValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	count := ctx.ClaimTeacher(item.TeacherID, item.Day, item.TimeslotCode)
	if count > 1 {
		return []Violation{{Category: TeacherConflict, GeneIndex: geneIndex, Message: fmt.Sprintf("teacher %q double-booked on %s at %s", item.TeacherID, item.Day, item.TimeslotCode), Severity: 1}}
	}
	return nil
}

// studentGroupConflictValidator is stateful: same semantics, keyed per
// student group (a gene can claim multiple groups at once).
type studentGroupConflictValidator struct{}

func (v *studentGroupConflictValidator) Category() Category { return StudentGroupConflict }

func (v *studentGroupConflictValidator) ValidateGene(ctx *ConstraintContext, item ScheduledItem, geneIndex int, registry *ConstraintRegistry) []Violation {
	var out []Violation
	for _, gid := range item.StudentGroupIDs {
		count := ctx.ClaimStudentGroup(gid, item.Day, item.TimeslotCode)
		if count > 1 {
			out = append(out, Violation{Category: StudentGroupConflict, GeneIndex: geneIndex, Message: fmt.Sprintf("student group %q double-booked on %s at %s", gid, item.Day, item.TimeslotCode), Severity: 1})
		}
	}
	return out
}
