package scheduler

import "fmt"

// occupancyKey identifies one (resource, day, timeslot) cell. First occupant
// wins; a later gene claiming the same cell is a conflict, not an overwrite.
type occupancyKey struct {
	resourceID string
	day        string
	timeslot   string
}

// ConstraintContext is shared, mutable, per-evaluation state threaded through
// every validator call for a single chromosome. It is reset before each
// chromosome evaluation and never shared across concurrent evaluations.
type ConstraintContext struct {
	Input InputData

	coursesByID       map[string]Course
	teachersByID      map[string]Teacher
	roomsByID         map[string]Room
	studentGroupsByID map[string]StudentGroup
	timeslotsByCode   map[string]Timeslot

	roomOccupancy         map[occupancyKey]int
	teacherOccupancy      map[occupancyKey]int
	studentGroupOccupancy map[occupancyKey]int
}

// NewConstraintContext indexes reference data once per request; Reset is
// called once per chromosome evaluation thereafter.
func NewConstraintContext(input InputData) *ConstraintContext {
	ctx := &ConstraintContext{
		Input:             input,
		coursesByID:       make(map[string]Course, len(input.Courses)),
		teachersByID:      make(map[string]Teacher, len(input.Teachers)),
		roomsByID:         make(map[string]Room, len(input.Rooms)),
		studentGroupsByID: make(map[string]StudentGroup, len(input.StudentGroups)),
		timeslotsByCode:   make(map[string]Timeslot, len(input.Timeslots)),
	}
	for _, c := range input.Courses {
		ctx.coursesByID[c.ID] = c
	}
	for _, t := range input.Teachers {
		ctx.teachersByID[t.ID] = t
	}
	for _, r := range input.Rooms {
		ctx.roomsByID[r.ID] = r
	}
	for _, g := range input.StudentGroups {
		ctx.studentGroupsByID[g.ID] = g
	}
	for _, ts := range input.Timeslots {
		ctx.timeslotsByCode[ts.Code] = ts
	}
	ctx.Reset()
	return ctx
}

// Reset clears all occupancy tracking so the context is ready for a fresh
// chromosome evaluation. Reference-data indices are left untouched.
func (ctx *ConstraintContext) Reset() {
	ctx.roomOccupancy = make(map[occupancyKey]int)
	ctx.teacherOccupancy = make(map[occupancyKey]int)
	ctx.studentGroupOccupancy = make(map[occupancyKey]int)
}

func (ctx *ConstraintContext) Course(id string) (Course, bool) {
	c, ok := ctx.coursesByID[id]
	return c, ok
}

func (ctx *ConstraintContext) Teacher(id string) (Teacher, bool) {
	t, ok := ctx.teachersByID[id]
	return t, ok
}

func (ctx *ConstraintContext) Room(id string) (Room, bool) {
	r, ok := ctx.roomsByID[id]
	return r, ok
}

func (ctx *ConstraintContext) StudentGroup(id string) (StudentGroup, bool) {
	g, ok := ctx.studentGroupsByID[id]
	return g, ok
}

func (ctx *ConstraintContext) Timeslot(code string) (Timeslot, bool) {
	ts, ok := ctx.timeslotsByCode[code]
	return ts, ok
}

// ClaimRoom registers one more claim on a room/day/slot cell and reports
// how many genes (including this one) now claim it. The
// first claimant is never itself a violation; callers flag a conflict only
// once a cell's count exceeds one.
func (ctx *ConstraintContext) ClaimRoom(roomID, day, timeslotCode string) int {
	key := occupancyKey{roomID, day, timeslotCode}
	ctx.roomOccupancy[key]++
	return ctx.roomOccupancy[key]
}

// ClaimTeacher registers a teacher's occupancy of a day/slot cell.
func (ctx *ConstraintContext) ClaimTeacher(teacherID, day, timeslotCode string) int {
	key := occupancyKey{teacherID, day, timeslotCode}
	ctx.teacherOccupancy[key]++
	return ctx.teacherOccupancy[key]
}

// ClaimStudentGroup registers a student group's occupancy of a day/slot cell.
func (ctx *ConstraintContext) ClaimStudentGroup(groupID, day, timeslotCode string) int {
	key := occupancyKey{groupID, day, timeslotCode}
	ctx.studentGroupOccupancy[key]++
	return ctx.studentGroupOccupancy[key]
}

// consecutiveOrderGap returns the absolute difference in timeslot Order
// between two timeslot codes, or an error if either code is unknown.
func (ctx *ConstraintContext) consecutiveOrderGap(a, b string) (int, error) {
	ta, ok := ctx.Timeslot(a)
	if !ok {
		return 0, fmt.Errorf("unknown timeslot code %q", a)
	}
	tb, ok := ctx.Timeslot(b)
	if !ok {
		return 0, fmt.Errorf("unknown timeslot code %q", b)
	}
	gap := ta.Order - tb.Order
	if gap < 0 {
		gap = -gap
	}
	return gap, nil
}
