package scheduler

// RoomDTO is the wire shape of a room in a scheduling request.
type RoomDTO struct {
	ID                   string `json:"classroomId" validate:"required"`
	Name                 string `json:"name"`
	Capacity             int    `json:"capacity" validate:"min=0"`
	Type                 string `json:"type" validate:"required"`
	BuildingID           string `json:"buildingId"`
	Floor                int    `json:"floor"`
	WheelchairAccessible bool   `json:"isWheelchairAccessible"`
}

// TeacherDTO is the wire shape of a teacher.
type TeacherDTO struct {
	ID                  string `json:"teacherId" validate:"required"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Department          string `json:"department"`
	NeedsAccessibleRoom bool   `json:"needsWheelchairAccessibleRoom"`
}

// StudentGroupDTO is the wire shape of a student group.
type StudentGroupDTO struct {
	ID                    string `json:"studentGroupId" validate:"required"`
	Name                  string `json:"name"`
	Size                  int    `json:"size" validate:"min=0"`
	Department            string `json:"department"`
	AccessibilityRequired bool   `json:"accessibilityRequirement"`
}

// CourseDTO is the wire shape of a course requiring weekly sessions.
type CourseDTO struct {
	ID              string   `json:"courseId" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	ECTSCredits     int      `json:"ectsCredits" validate:"min=0"`
	Department      string   `json:"department"`
	TeacherID       string   `json:"teacherId" validate:"required"`
	SessionType     string   `json:"sessionType" validate:"required"`
	SessionsPerWeek int      `json:"sessionsPerWeek" validate:"min=1"`
	StudentGroupIDs []string `json:"studentGroupIds" validate:"required,min=1"`
}

// TimeslotDTO is the wire shape of a timeslot.
type TimeslotDTO struct {
	ID    string `json:"timeslotId"`
	Code  string `json:"code" validate:"required"`
	Label string `json:"label"`
	Start string `json:"startTime"`
	End   string `json:"endTime"`
	Order int    `json:"order"`
}

// ConstraintDTO is the wire shape of a user-supplied constraint.
type ConstraintDTO struct {
	ID        string                 `json:"constraintId"`
	Type      string                 `json:"type" validate:"required"`
	TeacherID string                 `json:"teacherId"`
	Value     map[string]interface{} `json:"value"`
	Priority  float64                `json:"priority"`
}

// GenerateRequest is the POST /scheduler request body.
type GenerateRequest struct {
	Courses       []CourseDTO       `json:"courses" validate:"required,min=1,dive"`
	Teachers      []TeacherDTO      `json:"teachers" validate:"required,dive"`
	Rooms         []RoomDTO         `json:"rooms" validate:"required,dive"`
	StudentGroups []StudentGroupDTO `json:"studentGroups" validate:"required,dive"`
	Timeslots     []TimeslotDTO     `json:"timeslots" validate:"required,dive"`
	Constraints   []ConstraintDTO   `json:"constraints" validate:"dive"`
	Days          []string          `json:"days"`
	MaxGenerations int              `json:"maxGenerations"`
	DeadlineSeconds int             `json:"deadlineSeconds"`
}

// EvaluateRequest is the POST /scheduler/evaluate request body: a proposed
// schedule plus the same reference data GenerateRequest carries.
type EvaluateRequest struct {
	Schedule      []ScheduledItemDTO `json:"schedule" validate:"required,dive"`
	Courses       []CourseDTO        `json:"courses" validate:"required,min=1,dive"`
	Teachers      []TeacherDTO       `json:"teachers" validate:"required,dive"`
	Rooms         []RoomDTO          `json:"rooms" validate:"required,dive"`
	StudentGroups []StudentGroupDTO  `json:"studentGroups" validate:"required,dive"`
	Timeslots     []TimeslotDTO      `json:"timeslots" validate:"required,dive"`
	Constraints   []ConstraintDTO    `json:"constraints" validate:"dive"`
	Days          []string           `json:"days"`
}

// ScheduledItemDTO is the wire shape of one scheduled session.
type ScheduledItemDTO struct {
	CourseID        string   `json:"courseId" validate:"required"`
	CourseName      string   `json:"courseName"`
	SessionType     string   `json:"sessionType"`
	TeacherID       string   `json:"teacherId" validate:"required"`
	StudentGroupIDs []string `json:"studentGroupIds"`
	ClassroomID     string   `json:"classroomId"`
	TimeslotCode    string   `json:"timeslot"`
	Day             string   `json:"day"`
}

// GenerateResponseData is the "data" payload of a successful POST /scheduler
// response.
type GenerateResponseData struct {
	BestSchedule []ScheduledItemDTO `json:"best_schedule"`
	BestFitness  float64            `json:"best_fitness"`
	Report       FitnessReport      `json:"report"`
	TimeTaken    float64            `json:"time_taken"`
	RunMetrics   *RunMetrics        `json:"run_metrics,omitempty"`
	Bounds       *BoundsAnalysis    `json:"bounds,omitempty"`
}

// EvaluateSummary is the "data.summary" payload of POST /scheduler/evaluate.
type EvaluateSummary struct {
	IsFeasible          bool    `json:"is_feasible"`
	TotalHardViolations int     `json:"total_hard_violations"`
	TotalSoftPenalty    float64 `json:"total_soft_penalty"`
	TotalViolations     int     `json:"total_violations"`
	EvaluationTime      float64 `json:"evaluation_time"`
}

// EvaluateResponseData is the "data" payload of a successful
// POST /scheduler/evaluate response.
type EvaluateResponseData struct {
	Summary       EvaluateSummary                `json:"summary"`
	Violations    []ConstraintViolation          `json:"violations"`
	Categories    map[Category]*CategorySummary  `json:"categories"`
	FitnessVector []float64                      `json:"fitness_vector"`
}

// ToInputData converts the request's flat DTOs into the domain's InputData,
// resolving every enum-typed field.
func (r GenerateRequest) ToInputData() InputData {
	return InputData{
		Courses:       toCourses(r.Courses),
		Teachers:      toTeachers(r.Teachers),
		Rooms:         toRooms(r.Rooms),
		StudentGroups: toStudentGroups(r.StudentGroups),
		Timeslots:     toTimeslots(r.Timeslots),
		Constraints:   toConstraints(r.Constraints),
		Days:          defaultDays(r.Days),
	}
}

// ToInputData converts an EvaluateRequest's reference data the same way
// GenerateRequest does; the proposed schedule is handled separately by
// ToChromosome.
func (r EvaluateRequest) ToInputData() InputData {
	return InputData{
		Courses:       toCourses(r.Courses),
		Teachers:      toTeachers(r.Teachers),
		Rooms:         toRooms(r.Rooms),
		StudentGroups: toStudentGroups(r.StudentGroups),
		Timeslots:     toTimeslots(r.Timeslots),
		Constraints:   toConstraints(r.Constraints),
		Days:          defaultDays(r.Days),
	}
}

// ToChromosome converts the proposed schedule DTOs into a Chromosome for
// evaluation.
func (r EvaluateRequest) ToChromosome() Chromosome {
	out := make(Chromosome, len(r.Schedule))
	for i, item := range r.Schedule {
		out[i] = ScheduledItem{
			CourseID:        item.CourseID,
			CourseName:      item.CourseName,
			SessionType:     RoomType(item.SessionType),
			TeacherID:       item.TeacherID,
			StudentGroupIDs: append([]string(nil), item.StudentGroupIDs...),
			ClassroomID:     item.ClassroomID,
			TimeslotCode:    item.TimeslotCode,
			Day:             item.Day,
		}
	}
	return out
}

// FromChromosome converts a domain Chromosome back into wire DTOs.
func FromChromosome(c Chromosome) []ScheduledItemDTO {
	out := make([]ScheduledItemDTO, len(c))
	for i, item := range c {
		out[i] = ScheduledItemDTO{
			CourseID:        item.CourseID,
			CourseName:      item.CourseName,
			SessionType:     string(item.SessionType),
			TeacherID:       item.TeacherID,
			StudentGroupIDs: item.StudentGroupIDs,
			ClassroomID:     item.ClassroomID,
			TimeslotCode:    item.TimeslotCode,
			Day:             item.Day,
		}
	}
	return out
}

func toCourses(in []CourseDTO) []Course {
	out := make([]Course, len(in))
	for i, c := range in {
		out[i] = Course{
			ID:              c.ID,
			Name:            c.Name,
			ECTSCredits:     c.ECTSCredits,
			Department:      c.Department,
			TeacherID:       c.TeacherID,
			SessionType:     RoomType(c.SessionType),
			SessionsPerWeek: c.SessionsPerWeek,
			StudentGroupIDs: c.StudentGroupIDs,
		}
	}
	return out
}

func toTeachers(in []TeacherDTO) []Teacher {
	out := make([]Teacher, len(in))
	for i, t := range in {
		out[i] = Teacher{
			ID:                  t.ID,
			Name:                t.Name,
			Email:               t.Email,
			Phone:               t.Phone,
			Department:          t.Department,
			NeedsAccessibleRoom: t.NeedsAccessibleRoom,
		}
	}
	return out
}

func toRooms(in []RoomDTO) []Room {
	out := make([]Room, len(in))
	for i, r := range in {
		out[i] = Room{
			ID:                   r.ID,
			Name:                 r.Name,
			Capacity:             r.Capacity,
			Type:                 RoomType(r.Type),
			BuildingID:           r.BuildingID,
			Floor:                r.Floor,
			WheelchairAccessible: r.WheelchairAccessible,
		}
	}
	return out
}

func toStudentGroups(in []StudentGroupDTO) []StudentGroup {
	out := make([]StudentGroup, len(in))
	for i, g := range in {
		out[i] = StudentGroup{
			ID:                    g.ID,
			Name:                  g.Name,
			Size:                  g.Size,
			Department:            g.Department,
			AccessibilityRequired: g.AccessibilityRequired,
		}
	}
	return out
}

func toTimeslots(in []TimeslotDTO) []Timeslot {
	out := make([]Timeslot, len(in))
	for i, t := range in {
		out[i] = Timeslot{ID: t.ID, Code: t.Code, Label: t.Label, Start: t.Start, End: t.End, Order: t.Order}
	}
	return out
}

func toConstraints(in []ConstraintDTO) []Constraint {
	out := make([]Constraint, len(in))
	for i, c := range in {
		out[i] = Constraint{ID: c.ID, Type: c.Type, TeacherID: c.TeacherID, Value: c.Value, Priority: c.Priority}
	}
	return out
}

func defaultDays(days []string) []string {
	if len(days) == 0 {
		return Days
	}
	return days
}
