package scheduler

import "go.uber.org/zap"

func sampleTimeslots() []Timeslot {
	return []Timeslot{
		{ID: "ts-1", Code: "T1", Start: "08:00", End: "08:50", Order: 0},
		{ID: "ts-2", Code: "T2", Start: "09:00", End: "09:50", Order: 1},
		{ID: "ts-3", Code: "T3", Start: "10:00", End: "10:50", Order: 2},
		{ID: "ts-4", Code: "T4", Start: "11:00", End: "11:50", Order: 3},
		{ID: "ts-5", Code: "T5", Start: "12:00", End: "12:50", Order: 4},
	}
}

func sampleRooms() []Room {
	return []Room{
		{ID: "room-1", Capacity: 30, Type: RoomLecture},
		{ID: "room-2", Capacity: 20, Type: RoomLab, WheelchairAccessible: true},
	}
}

func sampleTeachers() []Teacher {
	return []Teacher{
		{ID: "teacher-1"},
		{ID: "teacher-2", NeedsAccessibleRoom: true},
	}
}

func sampleStudentGroups() []StudentGroup {
	return []StudentGroup{
		{ID: "group-1", Size: 25},
		{ID: "group-2", Size: 15},
	}
}

func sampleCourses() []Course {
	return []Course{
		{
			ID:              "course-1",
			ECTSCredits:     6,
			TeacherID:       "teacher-1",
			SessionType:     RoomLecture,
			SessionsPerWeek: 2,
			StudentGroupIDs: []string{"group-1"},
		},
		{
			ID:              "course-2",
			ECTSCredits:     4,
			TeacherID:       "teacher-2",
			SessionType:     RoomLab,
			SessionsPerWeek: 1,
			StudentGroupIDs: []string{"group-2"},
		},
	}
}

func sampleInput() InputData {
	return InputData{
		Courses:       sampleCourses(),
		Teachers:      sampleTeachers(),
		Rooms:         sampleRooms(),
		StudentGroups: sampleStudentGroups(),
		Timeslots:     sampleTimeslots(),
		Days:          Days,
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }
