package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

// ErrMalformedSlot is returned when a persisted slot record addresses a cell
// outside the weekly grid. The load fails as a whole; other sections are
// unaffected.
var ErrMalformedSlot = errors.New("malformed slot record")

// ScheduleGrid is one section's weekly 6x6 matrix (Saturday trimmed to 4
// usable slots). It is exclusively owned by the section being edited.
type ScheduleGrid struct {
	SectionID uuid.UUID

	cells map[Day]map[Slot]*Assignment
}

func NewGrid(sectionID uuid.UUID) *ScheduleGrid {
	g := &ScheduleGrid{
		SectionID: sectionID,
		cells:     make(map[Day]map[Slot]*Assignment, int(Saturday)+1),
	}
	for d := Monday; d <= Saturday; d++ {
		g.cells[d] = make(map[Slot]*Assignment, int(SlotsForDay(d)))
	}
	return g
}

// LoadGrid builds a grid from the flat persisted slot records of one section.
func LoadGrid(sectionID uuid.UUID, records []m.TimetableSlotModel) (*ScheduleGrid, error) {
	g := NewGrid(sectionID)
	for i := range records {
		rec := &records[i]
		day := Day(rec.SlotDay)
		slot := Slot(rec.SlotNumber)
		if !SlotUsable(day, slot) {
			return nil, fmt.Errorf("%w: day=%d slot=%d section=%s", ErrMalformedSlot, rec.SlotDay, rec.SlotNumber, sectionID)
		}
		g.cells[day][slot] = assignmentFromModel(rec)
	}
	return g, nil
}

// At returns the assignment at (day, slot), nil when empty or unusable.
func (g *ScheduleGrid) At(day Day, slot Slot) *Assignment {
	if !SlotUsable(day, slot) {
		return nil
	}
	return g.cells[day][slot]
}

// SetAssignment writes a cell after validation has passed. Lab assignments
// occupy (slot, slot+1) atomically; any overwritten lab pair is cleared first
// so a half-pair never survives.
func (g *ScheduleGrid) SetAssignment(day Day, slot Slot, a *Assignment) error {
	if a == nil {
		return fmt.Errorf("nil assignment at %s slot %d", day, slot)
	}
	if !SlotUsable(day, slot) {
		return fmt.Errorf("%w: day=%s slot=%d", ErrMalformedSlot, day, slot)
	}
	if a.IsLab {
		if slot%2 == 0 {
			return fmt.Errorf("lab must start on an odd slot, got %d", slot)
		}
		if slot+1 > SlotsForDay(day) {
			return fmt.Errorf("lab pair does not fit on %s starting at slot %d", day, slot)
		}
		g.Clear(day, slot)
		g.Clear(day, slot+1)
		g.cells[day][slot] = a.Clone()
		g.cells[day][slot+1] = a.Clone()
		return nil
	}
	g.Clear(day, slot)
	g.cells[day][slot] = a.Clone()
	return nil
}

// Clear empties a cell; clearing either half of a lab pair removes both.
func (g *ScheduleGrid) Clear(day Day, slot Slot) {
	cur := g.At(day, slot)
	if cur == nil {
		return
	}
	if cur.IsLab {
		anchor := LabPairStart(slot)
		if g.At(day, anchor) != nil && g.At(day, anchor).equalPair(g.At(day, anchor+1)) {
			delete(g.cells[day], anchor)
			delete(g.cells[day], anchor+1)
			return
		}
	}
	delete(g.cells[day], slot)
}

// SetFaculty attaches an instructor to an occupied cell; for labs both halves
// of the pair get the same instructor.
func (g *ScheduleGrid) SetFaculty(day Day, slot Slot, facultyID uuid.UUID, facultyName string) error {
	cur := g.At(day, slot)
	if cur == nil {
		return fmt.Errorf("no assignment at %s slot %d", day, slot)
	}
	apply := func(cell *Assignment) {
		fid := facultyID
		cell.FacultyID = &fid
		cell.FacultyName = facultyName
	}
	apply(cur)
	if cur.IsLab {
		anchor := LabPairStart(slot)
		for _, s := range []Slot{anchor, anchor + 1} {
			if other := g.At(day, s); other != nil && other != cur && other.IsLab && other.SubjectCode == cur.SubjectCode {
				apply(other)
			}
		}
	}
	return nil
}

// DetachFaculty marks a cell's instructor as unassigned, keeping subject and
// room in place. Pair-aware like SetFaculty.
func (g *ScheduleGrid) DetachFaculty(day Day, slot Slot) error {
	cur := g.At(day, slot)
	if cur == nil {
		return fmt.Errorf("no assignment at %s slot %d", day, slot)
	}
	detach := func(cell *Assignment) {
		cell.FacultyID = nil
		cell.FacultyName = FacultyTBA
	}
	detach(cur)
	if cur.IsLab {
		anchor := LabPairStart(slot)
		for _, s := range []Slot{anchor, anchor + 1} {
			if other := g.At(day, s); other != nil && other != cur && other.IsLab && other.SubjectCode == cur.SubjectCode {
				detach(other)
			}
		}
	}
	return nil
}

// ApplyOverlay replays pending changes for this section onto the grid.
// Replaying the same entries again yields the same grid.
func (g *ScheduleGrid) ApplyOverlay(changes []m.PendingChangeModel) {
	for i := range changes {
		ch := &changes[i]
		if ch.PendingChangeSectionID != g.SectionID {
			continue
		}
		day := Day(ch.PendingChangeDay)
		slot := Slot(ch.PendingChangeSlot)
		if !SlotUsable(day, slot) {
			continue
		}
		payload, err := ch.ParsePayload()
		if err != nil {
			continue
		}
		switch ch.PendingChangeKind {
		case m.PendingUnassign:
			_ = g.DetachFaculty(day, slot)
		case m.PendingAssign:
			a := &Assignment{
				SubjectCode: payload.SubjectCode,
				SubjectName: payload.SubjectName,
				FacultyID:   payload.FacultyID,
				FacultyName: payload.FacultyName,
				RoomID:      payload.RoomID,
				RoomName:    payload.RoomName,
				IsLab:       payload.IsLab,
			}
			if payload.SubjectID != nil {
				a.SubjectID = *payload.SubjectID
			}
			if a.FacultyName == "" {
				a.FacultyName = FacultyTBA
			}
			if a.RoomName == "" {
				a.RoomName = RoomTBD
			}
			_ = g.SetAssignment(day, slot, a)
		case m.PendingReassignFaculty:
			if payload.FacultyID != nil {
				_ = g.SetFaculty(day, slot, *payload.FacultyID, payload.FacultyName)
			}
		}
	}
}

// CountSubject counts cells holding the given subject code.
func (g *ScheduleGrid) CountSubject(code string) int {
	n := 0
	for d := Monday; d <= Saturday; d++ {
		for s := MinSlot; s <= SlotsForDay(d); s++ {
			if cell := g.cells[d][s]; cell != nil && cell.SubjectCode == code {
				n++
			}
		}
	}
	return n
}

// Serialize flattens the grid back to persisted slot records, omitting empty
// cells, in (day, slot) order.
func (g *ScheduleGrid) Serialize() []m.TimetableSlotModel {
	var out []m.TimetableSlotModel
	for d := Monday; d <= Saturday; d++ {
		for s := MinSlot; s <= SlotsForDay(d); s++ {
			cell := g.cells[d][s]
			if cell == nil {
				continue
			}
			out = append(out, m.TimetableSlotModel{
				SlotSectionID:   g.SectionID,
				SlotDay:         int(d),
				SlotNumber:      int(s),
				SlotSubjectID:   cell.SubjectID,
				SlotSubjectCode: cell.SubjectCode,
				SlotSubjectName: cell.SubjectName,
				SlotFacultyID:   cell.FacultyID,
				SlotFacultyName: cell.FacultyName,
				SlotRoomID:      cell.RoomID,
				SlotRoomName:    cell.RoomName,
				SlotIsLab:       cell.IsLab,
			})
		}
	}
	return out
}

func assignmentFromModel(rec *m.TimetableSlotModel) *Assignment {
	a := &Assignment{
		SubjectID:   rec.SlotSubjectID,
		SubjectCode: rec.SlotSubjectCode,
		SubjectName: rec.SlotSubjectName,
		FacultyID:   rec.SlotFacultyID,
		FacultyName: rec.SlotFacultyName,
		RoomID:      rec.SlotRoomID,
		RoomName:    rec.SlotRoomName,
		IsLab:       rec.SlotIsLab,
	}
	if a.FacultyName == "" {
		a.FacultyName = FacultyTBA
	}
	if a.RoomName == "" {
		a.RoomName = RoomTBD
	}
	return a.Clone()
}
