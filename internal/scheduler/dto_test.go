package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleGenerateRequest() GenerateRequest {
	return GenerateRequest{
		Courses: []CourseDTO{
			{ID: "course-1", Name: "Algorithms", ECTSCredits: 6, TeacherID: "teacher-1", SessionType: "LECTURE", SessionsPerWeek: 2, StudentGroupIDs: []string{"group-1"}},
		},
		Teachers:      []TeacherDTO{{ID: "teacher-1", NeedsAccessibleRoom: true}},
		Rooms:         []RoomDTO{{ID: "room-1", Capacity: 30, Type: "LECTURE", WheelchairAccessible: true}},
		StudentGroups: []StudentGroupDTO{{ID: "group-1", Size: 25}},
		Timeslots:     []TimeslotDTO{{ID: "ts-1", Code: "T1", Order: 0}},
	}
}

func TestToInputDataConvertsEveryField(t *testing.T) {
	req := sampleGenerateRequest()
	input := req.ToInputData()

	assert.Len(t, input.Courses, 1)
	assert.Equal(t, RoomLecture, input.Courses[0].SessionType)
	assert.True(t, input.Teachers[0].NeedsAccessibleRoom)
	assert.Equal(t, RoomLecture, input.Rooms[0].Type)
	assert.Equal(t, 25, input.StudentGroups[0].Size)
	assert.Equal(t, "T1", input.Timeslots[0].Code)
	assert.Equal(t, Days, input.Days, "empty Days must default to the full week")
}

func TestToInputDataPreservesExplicitDays(t *testing.T) {
	req := sampleGenerateRequest()
	req.Days = []string{"Monday"}
	input := req.ToInputData()
	assert.Equal(t, []string{"Monday"}, input.Days)
}

func TestEvaluateRequestToChromosomeRoundTrips(t *testing.T) {
	req := EvaluateRequest{
		Schedule: []ScheduledItemDTO{
			{CourseID: "course-1", TeacherID: "teacher-1", SessionType: "LECTURE", ClassroomID: "room-1", TimeslotCode: "T1", Day: "Monday", StudentGroupIDs: []string{"group-1"}},
		},
	}
	chromosome := req.ToChromosome()
	assert.Len(t, chromosome, 1)
	assert.Equal(t, RoomLecture, chromosome[0].SessionType)

	back := FromChromosome(chromosome)
	assert.Equal(t, req.Schedule[0].CourseID, back[0].CourseID)
	assert.Equal(t, req.Schedule[0].SessionType, back[0].SessionType)
}

func TestToChromosomeClonesStudentGroupSlice(t *testing.T) {
	original := []string{"group-1"}
	req := EvaluateRequest{Schedule: []ScheduledItemDTO{{CourseID: "course-1", StudentGroupIDs: original}}}
	chromosome := req.ToChromosome()
	chromosome[0].StudentGroupIDs[0] = "mutated"
	assert.Equal(t, "group-1", original[0], "ToChromosome must not alias the DTO's backing array")
}

func TestDefaultDaysFallsBackToFullWeek(t *testing.T) {
	assert.Equal(t, Days, defaultDays(nil))
	assert.Equal(t, []string{"Monday"}, defaultDays([]string{"Monday"}))
}
