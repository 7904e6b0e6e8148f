package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

func slotRecord(sectionID uuid.UUID, day, slot int, code, name string, isLab bool) m.TimetableSlotModel {
	return m.TimetableSlotModel{
		SlotSectionID:   sectionID,
		SlotDay:         day,
		SlotNumber:      slot,
		SlotSubjectID:   uuid.New(),
		SlotSubjectCode: code,
		SlotSubjectName: name,
		SlotFacultyName: FacultyTBA,
		SlotRoomName:    RoomTBD,
		SlotIsLab:       isLab,
	}
}

func TestLoadGridRoundTrip(t *testing.T) {
	sectionID := uuid.New()
	records := []m.TimetableSlotModel{
		slotRecord(sectionID, 0, 1, "CS101", "Data Structures", false),
		slotRecord(sectionID, 2, 3, "CS102", "Operating Systems", false),
		slotRecord(sectionID, 5, 4, "CS103", "Networks", false),
	}

	grid, err := LoadGrid(sectionID, records)
	require.NoError(t, err)

	out := grid.Serialize()
	require.Len(t, out, 3)
	require.Equal(t, "CS101", out[0].SlotSubjectCode)
	require.Equal(t, 0, out[0].SlotDay)
	require.Equal(t, 1, out[0].SlotNumber)
	require.Equal(t, "CS103", out[2].SlotSubjectCode)
	require.Equal(t, sectionID, out[2].SlotSectionID)
}

func TestLoadGridMalformedRecord(t *testing.T) {
	sectionID := uuid.New()

	cases := []struct {
		name string
		day  int
		slot int
	}{
		{"day out of range", 6, 1},
		{"slot zero", 0, 0},
		{"slot beyond max", 1, 7},
		{"saturday slot 5", 5, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadGrid(sectionID, []m.TimetableSlotModel{
				slotRecord(sectionID, tc.day, tc.slot, "CS101", "Data Structures", false),
			})
			require.ErrorIs(t, err, ErrMalformedSlot)
		})
	}
}

func TestSetAssignmentLabPair(t *testing.T) {
	grid := NewGrid(uuid.New())
	lab := &Assignment{
		SubjectID:   uuid.New(),
		SubjectCode: "CS101L",
		SubjectName: "Data Structures Lab",
		FacultyName: FacultyTBA,
		RoomName:    RoomTBD,
		IsLab:       true,
	}

	require.NoError(t, grid.SetAssignment(Monday, 3, lab))
	first := grid.At(Monday, 3)
	second := grid.At(Monday, 4)
	require.NotNil(t, first)
	require.NotNil(t, second)
	require.Equal(t, "CS101L", second.SubjectCode)
	// two copies, never one shared pointer
	require.NotSame(t, first, second)

	require.Error(t, grid.SetAssignment(Monday, 2, lab))
	require.Error(t, grid.SetAssignment(Saturday, 5, lab))

	// Saturday pair (3,4) still fits
	require.NoError(t, grid.SetAssignment(Saturday, 3, lab))
	require.NotNil(t, grid.At(Saturday, 4))
}

func TestClearRemovesWholeLabPair(t *testing.T) {
	grid := NewGrid(uuid.New())
	lab := &Assignment{SubjectCode: "CS101L", SubjectName: "Lab", FacultyName: FacultyTBA, RoomName: RoomTBD, IsLab: true}
	require.NoError(t, grid.SetAssignment(Tuesday, 5, lab))

	grid.Clear(Tuesday, 6)
	require.Nil(t, grid.At(Tuesday, 5))
	require.Nil(t, grid.At(Tuesday, 6))
}

func TestOverwriteLabHalfClearsPair(t *testing.T) {
	grid := NewGrid(uuid.New())
	lab := &Assignment{SubjectCode: "CS101L", SubjectName: "Lab", FacultyName: FacultyTBA, RoomName: RoomTBD, IsLab: true}
	require.NoError(t, grid.SetAssignment(Monday, 1, lab))

	theory := &Assignment{SubjectCode: "MA101", SubjectName: "Calculus", FacultyName: FacultyTBA, RoomName: RoomTBD}
	require.NoError(t, grid.SetAssignment(Monday, 2, theory))

	// the orphaned half must not survive
	require.Nil(t, grid.At(Monday, 1))
	require.Equal(t, "MA101", grid.At(Monday, 2).SubjectCode)
}

func TestSetAndDetachFacultyOnLabPair(t *testing.T) {
	grid := NewGrid(uuid.New())
	lab := &Assignment{SubjectCode: "CS101L", SubjectName: "Lab", FacultyName: FacultyTBA, RoomName: RoomTBD, IsLab: true}
	require.NoError(t, grid.SetAssignment(Wednesday, 3, lab))

	facultyID := uuid.New()
	require.NoError(t, grid.SetFaculty(Wednesday, 4, facultyID, "Dr. Rao"))
	require.Equal(t, "Dr. Rao", grid.At(Wednesday, 3).FacultyName)
	require.Equal(t, "Dr. Rao", grid.At(Wednesday, 4).FacultyName)

	require.NoError(t, grid.DetachFaculty(Wednesday, 3))
	for _, s := range []Slot{3, 4} {
		cell := grid.At(Wednesday, s)
		require.True(t, cell.FacultyUnassigned())
		require.Equal(t, FacultyTBA, cell.FacultyName)
		require.Equal(t, "CS101L", cell.SubjectCode)
	}
}

func TestApplyOverlayIdempotent(t *testing.T) {
	sectionID := uuid.New()
	subjectID := uuid.New()
	facultyID := uuid.New()

	base := []m.TimetableSlotModel{
		slotRecord(sectionID, 0, 1, "CS101", "Data Structures", false),
	}

	assignPayload := m.PendingChangePayload{
		SubjectID:   &subjectID,
		SubjectCode: "CS102",
		SubjectName: "Operating Systems",
		FacultyID:   &facultyID,
		FacultyName: "Dr. Rao",
	}
	changes := []m.PendingChangeModel{
		{
			PendingChangeKind:      m.PendingAssign,
			PendingChangeSectionID: sectionID,
			PendingChangeDay:       1,
			PendingChangeSlot:      2,
			PendingChangePayload:   assignPayload.ToJSON(),
		},
		{
			PendingChangeKind:      m.PendingUnassign,
			PendingChangeSectionID: sectionID,
			PendingChangeDay:       0,
			PendingChangeSlot:      1,
		},
	}

	grid, err := LoadGrid(sectionID, base)
	require.NoError(t, err)
	grid.ApplyOverlay(changes)
	once := grid.Serialize()

	grid.ApplyOverlay(changes)
	twice := grid.Serialize()
	require.Equal(t, once, twice)

	require.True(t, grid.At(Monday, 1).FacultyUnassigned())
	require.Equal(t, "Dr. Rao", grid.At(Tuesday, 2).FacultyName)
}

func TestApplyOverlaySkipsForeignAndMalformedEntries(t *testing.T) {
	sectionID := uuid.New()
	grid := NewGrid(sectionID)

	payload := m.PendingChangePayload{SubjectCode: "CS101", SubjectName: "Data Structures"}
	changes := []m.PendingChangeModel{
		{
			PendingChangeKind:      m.PendingAssign,
			PendingChangeSectionID: uuid.New(), // other section
			PendingChangeDay:       0,
			PendingChangeSlot:      1,
			PendingChangePayload:   payload.ToJSON(),
		},
		{
			PendingChangeKind:      m.PendingAssign,
			PendingChangeSectionID: sectionID,
			PendingChangeDay:       5,
			PendingChangeSlot:      6, // Saturday has no slot 6
			PendingChangePayload:   payload.ToJSON(),
		},
	}
	grid.ApplyOverlay(changes)
	require.Empty(t, grid.Serialize())
}

func TestCountSubject(t *testing.T) {
	sectionID := uuid.New()
	grid, err := LoadGrid(sectionID, []m.TimetableSlotModel{
		slotRecord(sectionID, 0, 1, "CS101", "Data Structures", false),
		slotRecord(sectionID, 1, 2, "CS101", "Data Structures", false),
		slotRecord(sectionID, 2, 3, "CS102", "Operating Systems", false),
	})
	require.NoError(t, err)
	require.Equal(t, 2, grid.CountSubject("CS101"))
	require.Equal(t, 0, grid.CountSubject("CS999"))
}
