package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

/* =========================
   In-memory fakes
   ========================= */

type fakeChangeLog struct {
	entries   map[string]*m.PendingChangeModel
	recordErr error
	clearErr  error
}

func newFakeChangeLog() *fakeChangeLog {
	return &fakeChangeLog{entries: make(map[string]*m.PendingChangeModel)}
}

func cellKey(sectionID uuid.UUID, day, slot int) string {
	return fmt.Sprintf("%s/%d/%d", sectionID, day, slot)
}

func (l *fakeChangeLog) Record(_ context.Context, change *m.PendingChangeModel) error {
	if l.recordErr != nil {
		return l.recordErr
	}
	cp := *change
	l.entries[cellKey(change.PendingChangeSectionID, change.PendingChangeDay, change.PendingChangeSlot)] = &cp
	return nil
}

func (l *fakeChangeLog) EntriesFor(_ context.Context, sectionID uuid.UUID) ([]m.PendingChangeModel, error) {
	var out []m.PendingChangeModel
	for _, e := range l.entries {
		if e.PendingChangeSectionID == sectionID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (l *fakeChangeLog) Clear(_ context.Context, sectionID uuid.UUID) error {
	if l.clearErr != nil {
		return l.clearErr
	}
	for k, e := range l.entries {
		if e.PendingChangeSectionID == sectionID {
			delete(l.entries, k)
		}
	}
	return nil
}

func (l *fakeChangeLog) UnassignedSections(_ context.Context) ([]SectionChangeCount, error) {
	counts := make(map[uuid.UUID]int)
	for _, e := range l.entries {
		if e.PendingChangeKind == m.PendingUnassign {
			counts[e.PendingChangeSectionID]++
		}
	}
	var out []SectionChangeCount
	for id, n := range counts {
		out = append(out, SectionChangeCount{SectionID: id, Count: n})
	}
	return out, nil
}

func (l *fakeChangeLog) SectionsWithChanges(_ context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, e := range l.entries {
		if _, ok := seen[e.PendingChangeSectionID]; ok {
			continue
		}
		seen[e.PendingChangeSectionID] = struct{}{}
		out = append(out, e.PendingChangeSectionID)
	}
	return out, nil
}

type fakeRemoteValidator struct {
	conflicts []Conflict
	err       error
	called    bool
}

func (r *fakeRemoteValidator) ValidateSlot(context.Context, uuid.UUID, Day, Slot, string, *uuid.UUID) ([]Conflict, error) {
	r.called = true
	return r.conflicts, r.err
}

/* =========================
   Tests
   ========================= */

func subjectItem(code, name string, weekly int) DraggedItem {
	return DraggedItem{
		Kind:    DragSubject,
		Subject: &SubjectInfo{ID: uuid.New(), Code: code, Name: name, WeeklyHours: weekly},
	}
}

func TestEditorAcceptedDrop(t *testing.T) {
	grid := NewGrid(uuid.New())
	logBk := newFakeChangeLog()
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), logBk, nil)

	require.NoError(t, editor.BeginDrag(subjectItem("CS101", "Data Structures", 4)))
	require.Equal(t, StateDragging, editor.State())

	res, err := editor.Drop(context.Background(), Monday, 1, "initial placement")
	require.NoError(t, err)
	require.Equal(t, DropAccepted, res.Status)
	require.Equal(t, StateIdle, editor.State())

	cell := grid.At(Monday, 1)
	require.NotNil(t, cell)
	require.Equal(t, "CS101", cell.SubjectCode)
	require.Equal(t, FacultyTBA, cell.FacultyName)

	entries, _ := logBk.EntriesFor(context.Background(), grid.SectionID)
	require.Len(t, entries, 1)
	require.Equal(t, m.PendingAssign, entries[0].PendingChangeKind)
	require.Equal(t, "initial placement", entries[0].PendingChangeReason)
}

func TestEditorDropWithoutBeginDrag(t *testing.T) {
	editor := NewAssignmentEditor(NewGrid(uuid.New()), NewGlobalScheduleIndex(), newFakeChangeLog(), nil)
	_, err := editor.Drop(context.Background(), Monday, 1, "")
	require.ErrorIs(t, err, ErrNotDragging)
}

func TestEditorWarningRequiresConfirmation(t *testing.T) {
	sectionID := uuid.New()
	grid, err := LoadGrid(sectionID, []m.TimetableSlotModel{
		slotRecord(sectionID, 0, 2, "CS101", "Data Structures", false),
	})
	require.NoError(t, err)
	logBk := newFakeChangeLog()
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), logBk, nil)

	require.NoError(t, editor.BeginDrag(subjectItem("CS101", "Data Structures", 4)))
	res, err := editor.Drop(context.Background(), Monday, 3, "")
	require.NoError(t, err)
	require.Equal(t, DropNeedsConfirmation, res.Status)
	require.Equal(t, StatePendingConfirmation, editor.State())

	// nothing applied or recorded until the operator confirms
	require.Nil(t, grid.At(Monday, 3))
	entries, _ := logBk.EntriesFor(context.Background(), sectionID)
	require.Empty(t, entries)

	// a new drag cannot start past a pending confirmation
	require.ErrorIs(t, editor.BeginDrag(subjectItem("CS102", "Operating Systems", 4)), ErrConfirmationPending)

	confirmed, err := editor.Confirm(context.Background())
	require.NoError(t, err)
	require.Equal(t, DropAccepted, confirmed.Status)
	require.Equal(t, StateIdle, editor.State())
	require.NotNil(t, grid.At(Monday, 3))
	entries, _ = logBk.EntriesFor(context.Background(), sectionID)
	require.Len(t, entries, 1)
}

func TestEditorCancelDiscardsStagedEdit(t *testing.T) {
	sectionID := uuid.New()
	grid, err := LoadGrid(sectionID, []m.TimetableSlotModel{
		slotRecord(sectionID, 0, 2, "CS101", "Data Structures", false),
	})
	require.NoError(t, err)
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), newFakeChangeLog(), nil)

	require.NoError(t, editor.BeginDrag(subjectItem("CS101", "Data Structures", 4)))
	res, err := editor.Drop(context.Background(), Monday, 3, "")
	require.NoError(t, err)
	require.Equal(t, DropNeedsConfirmation, res.Status)

	editor.Cancel()
	require.Equal(t, StateIdle, editor.State())
	require.Nil(t, grid.At(Monday, 3))

	_, err = editor.Confirm(context.Background())
	require.ErrorIs(t, err, ErrNothingToConfirm)
}

func TestEditorRejectedDropLeavesGridUntouched(t *testing.T) {
	editingSection := uuid.New()
	otherSection := uuid.New()
	facultyID := uuid.New()

	busy := slotRecord(otherSection, 0, 1, "CS201", "Algorithms", false)
	busy.SlotFacultyID = &facultyID
	idx := NewGlobalScheduleIndex()
	idx.Rebuild(map[uuid.UUID][]m.TimetableSlotModel{otherSection: {busy}})

	grid := NewGrid(editingSection)
	logBk := newFakeChangeLog()
	editor := NewAssignmentEditor(grid, idx, logBk, nil)

	item := subjectItem("CS101", "Data Structures", 4)
	item.Faculty = &FacultyInfo{ID: facultyID, Name: "Dr. Rao", MaxHours: 40}
	require.NoError(t, editor.BeginDrag(item))

	res, err := editor.Drop(context.Background(), Monday, 1, "")
	require.NoError(t, err)
	require.Equal(t, DropRejected, res.Status)
	require.True(t, HasBlocking(res.Conflicts))
	require.Equal(t, StateIdle, editor.State())

	require.Nil(t, grid.At(Monday, 1))
	entries, _ := logBk.EntriesFor(context.Background(), editingSection)
	require.Empty(t, entries)
}

func TestEditorFacultyOnEmptyCellIsNoop(t *testing.T) {
	grid := NewGrid(uuid.New())
	logBk := newFakeChangeLog()
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), logBk, nil)

	require.NoError(t, editor.BeginDrag(DraggedItem{
		Kind:    DragFaculty,
		Faculty: &FacultyInfo{ID: uuid.New(), Name: "Dr. Rao", MaxHours: 40},
	}))
	res, err := editor.Drop(context.Background(), Monday, 1, "")
	require.NoError(t, err)
	require.Equal(t, DropNoop, res.Status)
	require.NotEmpty(t, res.Message)
	require.Equal(t, StateIdle, editor.State())

	entries, _ := logBk.EntriesFor(context.Background(), grid.SectionID)
	require.Empty(t, entries)
}

func TestEditorFacultyDropOnOccupiedCell(t *testing.T) {
	sectionID := uuid.New()
	grid, err := LoadGrid(sectionID, []m.TimetableSlotModel{
		slotRecord(sectionID, 1, 2, "CS101", "Data Structures", false),
	})
	require.NoError(t, err)
	logBk := newFakeChangeLog()
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), logBk, nil)

	facultyID := uuid.New()
	require.NoError(t, editor.BeginDrag(DraggedItem{
		Kind:    DragFaculty,
		Faculty: &FacultyInfo{ID: facultyID, Name: "Dr. Rao", MaxHours: 40},
	}))
	res, err := editor.Drop(context.Background(), Tuesday, 2, "covering the open hour")
	require.NoError(t, err)
	require.Equal(t, DropAccepted, res.Status)

	cell := grid.At(Tuesday, 2)
	require.Equal(t, "Dr. Rao", cell.FacultyName)
	require.Equal(t, facultyID, *cell.FacultyID)

	entries, _ := logBk.EntriesFor(context.Background(), sectionID)
	require.Len(t, entries, 1)
	require.Equal(t, m.PendingReassignFaculty, entries[0].PendingChangeKind)
}

func TestEditorRejectsFacultyDropOnLabPairWithPartnerSlotClash(t *testing.T) {
	editingSection := uuid.New()
	otherSection := uuid.New()
	facultyID := uuid.New()

	// Dr. Rao is committed elsewhere at Monday slot 4 only
	busy := slotRecord(otherSection, 0, 4, "CS201", "Algorithms", false)
	busy.SlotFacultyID = &facultyID
	busy.SlotFacultyName = "Dr. Rao"
	idx := NewGlobalScheduleIndex()
	idx.Rebuild(map[uuid.UUID][]m.TimetableSlotModel{otherSection: {busy}})

	grid := NewGrid(editingSection)
	lab := &Assignment{SubjectCode: "CS101L", SubjectName: "Data Structures Lab", FacultyName: FacultyTBA, RoomName: RoomTBD, IsLab: true}
	require.NoError(t, grid.SetAssignment(Monday, 3, lab))

	logBk := newFakeChangeLog()
	editor := NewAssignmentEditor(grid, idx, logBk, nil)

	// dropping on slot 3 would attach Dr. Rao to slot 4 as well
	require.NoError(t, editor.BeginDrag(DraggedItem{
		Kind:    DragFaculty,
		Faculty: &FacultyInfo{ID: facultyID, Name: "Dr. Rao", MaxHours: 40},
	}))
	res, err := editor.Drop(context.Background(), Monday, 3, "")
	require.NoError(t, err)
	require.Equal(t, DropRejected, res.Status)
	require.NotNil(t, grid.At(Monday, 4))
	require.Equal(t, FacultyTBA, grid.At(Monday, 4).FacultyName)
	require.True(t, grid.At(Monday, 3).FacultyUnassigned())

	entries, _ := logBk.EntriesFor(context.Background(), editingSection)
	require.Empty(t, entries)
}

func TestEditorRemoveAssignment(t *testing.T) {
	sectionID := uuid.New()
	facultyID := uuid.New()
	rec := slotRecord(sectionID, 3, 4, "CS101", "Data Structures", false)
	rec.SlotFacultyID = &facultyID
	rec.SlotFacultyName = "Dr. Rao"

	grid, err := LoadGrid(sectionID, []m.TimetableSlotModel{rec})
	require.NoError(t, err)
	logBk := newFakeChangeLog()
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), logBk, nil)

	require.NoError(t, editor.RemoveAssignment(context.Background(), Thursday, 4, "instructor on leave"))

	cell := grid.At(Thursday, 4)
	require.True(t, cell.FacultyUnassigned())
	require.Equal(t, "CS101", cell.SubjectCode, "the subject stays scheduled")

	entries, _ := logBk.EntriesFor(context.Background(), sectionID)
	require.Len(t, entries, 1)
	require.Equal(t, m.PendingUnassign, entries[0].PendingChangeKind)
	payload, err := entries[0].ParsePayload()
	require.NoError(t, err)
	require.Equal(t, "Dr. Rao", payload.FacultyName)

	// the removal surfaces in the cross-section feed
	unresolved, _ := logBk.UnassignedSections(context.Background())
	require.Len(t, unresolved, 1)
	require.Equal(t, sectionID, unresolved[0].SectionID)

	require.Error(t, editor.RemoveAssignment(context.Background(), Friday, 1, ""), "empty cell has nothing to remove")
}

func TestEditorRecordFailurePreventsGridMutation(t *testing.T) {
	grid := NewGrid(uuid.New())
	logBk := newFakeChangeLog()
	logBk.recordErr = errors.New("connection refused")
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), logBk, nil)

	require.NoError(t, editor.BeginDrag(subjectItem("CS101", "Data Structures", 4)))
	_, err := editor.Drop(context.Background(), Monday, 1, "")
	require.Error(t, err)
	require.Nil(t, grid.At(Monday, 1))
}

func TestEditorMergesRemoteConflicts(t *testing.T) {
	grid := NewGrid(uuid.New())
	remote := &fakeRemoteValidator{conflicts: []Conflict{
		{Rule: "room_clash", Severity: SeverityError, Message: "Room LH-1 is booked by another department."},
	}}
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), newFakeChangeLog(), remote)

	require.NoError(t, editor.BeginDrag(subjectItem("CS101", "Data Structures", 4)))
	res, err := editor.Drop(context.Background(), Monday, 1, "")
	require.NoError(t, err)
	require.True(t, remote.called)
	require.Equal(t, DropRejected, res.Status)
	require.Nil(t, grid.At(Monday, 1))
}

func TestEditorIgnoresRemoteFailure(t *testing.T) {
	grid := NewGrid(uuid.New())
	remote := &fakeRemoteValidator{err: errors.New("dial tcp: connection refused")}
	editor := NewAssignmentEditor(grid, NewGlobalScheduleIndex(), newFakeChangeLog(), remote)

	require.NoError(t, editor.BeginDrag(subjectItem("CS101", "Data Structures", 4)))
	res, err := editor.Drop(context.Background(), Monday, 1, "")
	require.NoError(t, err)
	require.True(t, remote.called)
	require.Equal(t, DropAccepted, res.Status, "an unreachable validator never blocks a local edit")
}
