package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

/* =========================
   States & results
   ========================= */

type EditorState string

const (
	StateIdle                EditorState = "idle"
	StateDragging            EditorState = "dragging"
	StatePendingConfirmation EditorState = "pending_confirmation"
)

type DropStatus string

const (
	DropAccepted          DropStatus = "accepted"
	DropRejected          DropStatus = "rejected"
	DropNeedsConfirmation DropStatus = "needs_confirmation"
	// DropNoop: the drop had no target to act on (faculty onto an empty cell);
	// nothing was mutated, the advisory tells the operator why.
	DropNoop DropStatus = "noop"
)

type DropResult struct {
	Status    DropStatus `json:"status"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Message   string     `json:"message,omitempty"`
}

var (
	ErrNotDragging         = errors.New("no item picked up")
	ErrNothingToConfirm    = errors.New("no edit awaiting confirmation")
	ErrConfirmationPending = errors.New("an edit is awaiting confirmation")
)

/* =========================
   Editor
   ========================= */

// AssignmentEditor orchestrates one section's proposed edits:
// Idle -> Dragging -> Validating -> {Accepted | Rejected | PendingConfirmation} -> Idle.
// Validation runs synchronously inside Drop; only the confirmation wait is a
// real suspension point.
type AssignmentEditor struct {
	grid   *ScheduleGrid
	index  *GlobalScheduleIndex
	logBk  PendingChangeLog
	remote RemoteValidator

	state   EditorState
	dragged *DraggedItem
	staged  *stagedEdit
}

type stagedEdit struct {
	proposal  Proposal
	item      DraggedItem
	reason    string
	conflicts []Conflict
}

func NewAssignmentEditor(grid *ScheduleGrid, index *GlobalScheduleIndex, logBk PendingChangeLog, remote RemoteValidator) *AssignmentEditor {
	return &AssignmentEditor{
		grid:   grid,
		index:  index,
		logBk:  logBk,
		remote: remote,
		state:  StateIdle,
	}
}

func (e *AssignmentEditor) State() EditorState  { return e.state }
func (e *AssignmentEditor) Grid() *ScheduleGrid { return e.grid }

// BeginDrag picks up a subject or faculty token.
func (e *AssignmentEditor) BeginDrag(item DraggedItem) error {
	if e.state == StatePendingConfirmation {
		return ErrConfirmationPending
	}
	if !item.valid() {
		return fmt.Errorf("invalid dragged item kind %q", item.Kind)
	}
	e.dragged = &item
	e.state = StateDragging
	return nil
}

// Drop chooses a target cell, validates, and either applies, rejects, or
// stages the edit for confirmation. The editor returns to Idle except on the
// confirmation path.
func (e *AssignmentEditor) Drop(ctx context.Context, day Day, slot Slot, reason string) (DropResult, error) {
	if e.state != StateDragging || e.dragged == nil {
		return DropResult{}, ErrNotDragging
	}
	item := *e.dragged
	e.dragged = nil
	e.state = StateIdle

	// Faculty onto an empty cell: advisory no-op, a subject must occupy the
	// cell first.
	if item.Kind == DragFaculty && e.grid.At(day, slot) == nil {
		return DropResult{
			Status:  DropNoop,
			Message: "Cannot assign faculty to an empty slot. Drop a subject first.",
		}, nil
	}

	proposal := Proposal{
		SectionID: e.grid.SectionID,
		Day:       day,
		Slot:      slot,
		Subject:   item.Subject,
		Faculty:   item.Faculty,
	}

	conflicts := Validate(proposal, e.grid, e.index)
	conflicts = e.mergeRemote(ctx, proposal, conflicts)

	if HasBlocking(conflicts) {
		return DropResult{Status: DropRejected, Conflicts: conflicts}, nil
	}

	staged := &stagedEdit{proposal: proposal, item: item, reason: reason, conflicts: conflicts}
	if HasWarnings(conflicts) {
		e.staged = staged
		e.state = StatePendingConfirmation
		return DropResult{Status: DropNeedsConfirmation, Conflicts: conflicts}, nil
	}

	if err := e.apply(ctx, staged); err != nil {
		return DropResult{}, err
	}
	return DropResult{Status: DropAccepted, Conflicts: conflicts}, nil
}

// Confirm applies an edit held back by warning conflicts.
func (e *AssignmentEditor) Confirm(ctx context.Context) (DropResult, error) {
	if e.state != StatePendingConfirmation || e.staged == nil {
		return DropResult{}, ErrNothingToConfirm
	}
	staged := e.staged
	e.staged = nil
	e.state = StateIdle

	if err := e.apply(ctx, staged); err != nil {
		return DropResult{}, err
	}
	return DropResult{Status: DropAccepted, Conflicts: staged.conflicts}, nil
}

// Cancel discards whatever is in flight and returns to Idle.
func (e *AssignmentEditor) Cancel() {
	e.dragged = nil
	e.staged = nil
	e.state = StateIdle
}

// RemoveAssignment detaches the instructor from an occupied cell and records
// an Unassign change. Callable from any surface, independent of drag state.
func (e *AssignmentEditor) RemoveAssignment(ctx context.Context, day Day, slot Slot, reason string) error {
	cur := e.grid.At(day, slot)
	if cur == nil {
		return fmt.Errorf("no assignment at %s slot %d", day, slot)
	}

	payload := m.PendingChangePayload{
		SubjectCode: cur.SubjectCode,
		SubjectName: cur.SubjectName,
		FacultyID:   cur.FacultyID,
		FacultyName: cur.FacultyName,
		IsLab:       cur.IsLab,
	}
	change := &m.PendingChangeModel{
		PendingChangeKind:      m.PendingUnassign,
		PendingChangeSectionID: e.grid.SectionID,
		PendingChangeDay:       int(day),
		PendingChangeSlot:      int(slot),
		PendingChangeReason:    reason,
		PendingChangePayload:   payload.ToJSON(),
	}
	if err := e.logBk.Record(ctx, change); err != nil {
		return err
	}
	return e.grid.DetachFaculty(day, slot)
}

/* =========================
   Internal
   ========================= */

// apply records the pending change first, then mutates the grid, so an edit
// is never visible on a grid without its overlay entry.
func (e *AssignmentEditor) apply(ctx context.Context, staged *stagedEdit) error {
	p := staged.proposal

	switch staged.item.Kind {
	case DragSubject:
		sub := staged.item.Subject
		a := &Assignment{
			SubjectID:   sub.ID,
			SubjectCode: sub.Code,
			SubjectName: sub.Name,
			FacultyName: FacultyTBA,
			RoomName:    RoomTBD,
			IsLab:       sub.IsLab,
		}
		if staged.item.Faculty != nil {
			fid := staged.item.Faculty.ID
			a.FacultyID = &fid
			a.FacultyName = staged.item.Faculty.Name
		}
		subID := sub.ID
		payload := m.PendingChangePayload{
			SubjectID:   &subID,
			SubjectCode: a.SubjectCode,
			SubjectName: a.SubjectName,
			FacultyID:   a.FacultyID,
			FacultyName: a.FacultyName,
			RoomName:    a.RoomName,
			IsLab:       a.IsLab,
		}
		change := &m.PendingChangeModel{
			PendingChangeKind:      m.PendingAssign,
			PendingChangeSectionID: p.SectionID,
			PendingChangeDay:       int(p.Day),
			PendingChangeSlot:      int(p.Slot),
			PendingChangeReason:    staged.reason,
			PendingChangePayload:   payload.ToJSON(),
		}
		if err := e.logBk.Record(ctx, change); err != nil {
			return err
		}
		return e.grid.SetAssignment(p.Day, p.Slot, a)

	case DragFaculty:
		fac := staged.item.Faculty
		fid := fac.ID
		payload := m.PendingChangePayload{
			FacultyID:   &fid,
			FacultyName: fac.Name,
		}
		change := &m.PendingChangeModel{
			PendingChangeKind:      m.PendingReassignFaculty,
			PendingChangeSectionID: p.SectionID,
			PendingChangeDay:       int(p.Day),
			PendingChangeSlot:      int(p.Slot),
			PendingChangeReason:    staged.reason,
			PendingChangePayload:   payload.ToJSON(),
		}
		if err := e.logBk.Record(ctx, change); err != nil {
			return err
		}
		return e.grid.SetFaculty(p.Day, p.Slot, fac.ID, fac.Name)
	}

	return fmt.Errorf("invalid dragged item kind %q", staged.item.Kind)
}

// mergeRemote folds in the optional remote validation; failures are logged
// and ignored so an unreachable validator never blocks a local edit.
func (e *AssignmentEditor) mergeRemote(ctx context.Context, p Proposal, local []Conflict) []Conflict {
	if e.remote == nil {
		return local
	}
	subjectCode := ""
	if p.Subject != nil {
		subjectCode = p.Subject.Code
	}
	var facultyID *uuid.UUID
	if p.Faculty != nil {
		fid := p.Faculty.ID
		facultyID = &fid
	}
	extra, err := e.remote.ValidateSlot(ctx, p.SectionID, p.Day, p.Slot, subjectCode, facultyID)
	if err != nil {
		log.Printf("[Editor] remote validation skipped: %v", err)
		return local
	}
	return MergeConflicts(local, extra)
}
