package dto

import (
	"time"

	"github.com/google/uuid"

	svc "timetable_backend/internals/features/timetable/schedule/service"
)

/* =========================
   Requests
   ========================= */

type DraggedItemRequest struct {
	Kind      string     `json:"kind" validate:"required,oneof=subject faculty"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`
	FacultyID *uuid.UUID `json:"faculty_id,omitempty"`
}

type ProposeEditRequest struct {
	Day    string             `json:"day" validate:"required"`
	Slot   int                `json:"slot" validate:"required,min=1,max=6"`
	Reason string             `json:"reason" validate:"max=255"`
	Item   DraggedItemRequest `json:"item" validate:"required"`
}

type RemoveAssignmentRequest struct {
	Day    string `json:"day" validate:"required"`
	Slot   int    `json:"slot" validate:"required,min=1,max=6"`
	Reason string `json:"reason" validate:"max=255"`
}

/* =========================
   Responses
   ========================= */

type SlotCellResponse struct {
	Day         string     `json:"day"`
	Slot        int        `json:"slot"`
	SlotLabel   string     `json:"slot_label"`
	SubjectID   uuid.UUID  `json:"subject_id"`
	SubjectCode string     `json:"subject_code"`
	SubjectName string     `json:"subject_name"`
	FacultyID   *uuid.UUID `json:"faculty_id,omitempty"`
	FacultyName string     `json:"faculty_name"`
	RoomID      *uuid.UUID `json:"room_id,omitempty"`
	RoomName    string     `json:"room_name"`
	IsLab       bool       `json:"is_lab"`
	Unassigned  bool       `json:"unassigned"`
}

type GridResponse struct {
	SectionID      uuid.UUID          `json:"section_id"`
	Cells          []SlotCellResponse `json:"cells"`
	PendingChanges int                `json:"pending_changes"`
	// IndexRebuiltAt lets clients surface a stale-index advisory; zero means
	// the index has not been built yet this session.
	IndexRebuiltAt time.Time `json:"index_rebuilt_at"`
}

// NewGridResponse flattens a grid (overlay already applied) for transport.
func NewGridResponse(grid *svc.ScheduleGrid, pendingCount int, indexRebuiltAt time.Time) GridResponse {
	out := GridResponse{
		SectionID:      grid.SectionID,
		Cells:          []SlotCellResponse{},
		PendingChanges: pendingCount,
		IndexRebuiltAt: indexRebuiltAt,
	}
	for d := svc.Monday; d <= svc.Saturday; d++ {
		for s := svc.MinSlot; s <= svc.SlotsForDay(d); s++ {
			cell := grid.At(d, s)
			if cell == nil {
				continue
			}
			out.Cells = append(out.Cells, SlotCellResponse{
				Day:         d.String(),
				Slot:        int(s),
				SlotLabel:   s.Label(),
				SubjectID:   cell.SubjectID,
				SubjectCode: cell.SubjectCode,
				SubjectName: cell.SubjectName,
				FacultyID:   cell.FacultyID,
				FacultyName: cell.FacultyName,
				RoomID:      cell.RoomID,
				RoomName:    cell.RoomName,
				IsLab:       cell.IsLab,
				Unassigned:  cell.FacultyUnassigned(),
			})
		}
	}
	return out
}

type BusyRefResponse struct {
	SectionID   uuid.UUID `json:"section_id"`
	Day         string    `json:"day"`
	Slot        int       `json:"slot"`
	SlotLabel   string    `json:"slot_label"`
	SubjectCode string    `json:"subject_code"`
	SubjectName string    `json:"subject_name"`
	RoomName    string    `json:"room_name"`
	IsLab       bool      `json:"is_lab"`
}

func NewBusyRefResponses(refs []svc.BusyRef) []BusyRefResponse {
	out := make([]BusyRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, BusyRefResponse{
			SectionID:   ref.SectionID,
			Day:         ref.Day.String(),
			Slot:        int(ref.Slot),
			SlotLabel:   ref.Slot.Label(),
			SubjectCode: ref.SubjectCode,
			SubjectName: ref.SubjectName,
			RoomName:    ref.RoomName,
			IsLab:       ref.IsLab,
		})
	}
	return out
}
