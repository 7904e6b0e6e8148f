package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

func TestGlobalScheduleIndexRebuild(t *testing.T) {
	sectionA := uuid.New()
	sectionB := uuid.New()
	facultyID := uuid.New()
	roomID := uuid.New()

	recA := slotRecord(sectionA, 0, 1, "CS101", "Data Structures", false)
	recA.SlotFacultyID = &facultyID
	recA.SlotFacultyName = "Dr. Rao"
	recA.SlotRoomID = &roomID
	recA.SlotRoomName = "LH-1"

	recB := slotRecord(sectionB, 0, 2, "CS201", "Algorithms", false)
	recB.SlotFacultyID = &facultyID

	idx := NewGlobalScheduleIndex()
	require.True(t, idx.RebuiltAt().IsZero())

	idx.Rebuild(map[uuid.UUID][]m.TimetableSlotModel{
		sectionA: {recA},
		sectionB: {recB},
	})
	require.False(t, idx.RebuiltAt().IsZero())

	require.Equal(t, 2, idx.FacultyLoad(facultyID))
	require.True(t, idx.IsFacultyBusy(facultyID, Monday, 1, sectionB))
	require.False(t, idx.IsFacultyBusy(facultyID, Monday, 1, sectionA), "booking in the excluded section must not count")
	require.False(t, idx.IsFacultyBusy(facultyID, Monday, 3, sectionB))

	require.True(t, idx.IsRoomBusy(roomID, Monday, 1, sectionB))
	require.False(t, idx.IsRoomBusy(roomID, Monday, 2, sectionB))
}

func TestGlobalScheduleIndexRebuildReplacesOldState(t *testing.T) {
	sectionID := uuid.New()
	facultyID := uuid.New()

	rec := slotRecord(sectionID, 1, 3, "CS101", "Data Structures", false)
	rec.SlotFacultyID = &facultyID

	idx := NewGlobalScheduleIndex()
	idx.Rebuild(map[uuid.UUID][]m.TimetableSlotModel{sectionID: {rec}})
	require.Equal(t, 1, idx.FacultyLoad(facultyID))

	// instructor removed from the committed set
	rec.SlotFacultyID = nil
	rec.SlotFacultyName = FacultyTBA
	idx.Rebuild(map[uuid.UUID][]m.TimetableSlotModel{sectionID: {rec}})
	require.Equal(t, 0, idx.FacultyLoad(facultyID))
	require.False(t, idx.IsFacultyBusy(facultyID, Tuesday, 3, uuid.New()))
}

func TestFacultyScheduleReturnsCopy(t *testing.T) {
	sectionID := uuid.New()
	facultyID := uuid.New()

	rec := slotRecord(sectionID, 2, 4, "CS101", "Data Structures", false)
	rec.SlotFacultyID = &facultyID

	idx := NewGlobalScheduleIndex()
	idx.Rebuild(map[uuid.UUID][]m.TimetableSlotModel{sectionID: {rec}})

	roster := idx.FacultySchedule(facultyID)
	require.Len(t, roster, 1)
	require.Equal(t, Wednesday, roster[0].Day)
	require.Equal(t, Slot(4), roster[0].Slot)

	roster[0].SubjectCode = "mutated"
	require.Equal(t, "CS101", idx.FacultySchedule(facultyID)[0].SubjectCode)
}
