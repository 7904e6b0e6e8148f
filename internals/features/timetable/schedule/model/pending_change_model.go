package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PendingChangeKindEnum mirrors the pending_change_kind_enum in Postgres.
type PendingChangeKindEnum string

const (
	PendingUnassign        PendingChangeKindEnum = "unassign"
	PendingAssign          PendingChangeKindEnum = "assign"
	PendingReassignFaculty PendingChangeKindEnum = "reassign_faculty"
)

// PendingChangeModel is one overlay entry: an edit accepted in some editing
// surface but not yet committed. Uniquely keyed by (section, day, slot);
// recording a new change for the same cell replaces the old one.
type PendingChangeModel struct {
	PendingChangeID uuid.UUID `gorm:"column:pending_change_id;type:uuid;default:gen_random_uuid();primaryKey" json:"pending_change_id"`

	PendingChangeKind PendingChangeKindEnum `gorm:"column:pending_change_kind;type:varchar(24);not null" json:"pending_change_kind"`

	PendingChangeSectionID uuid.UUID `gorm:"column:pending_change_section_id;type:uuid;not null;uniqueIndex:uq_pending_cell,priority:1" json:"pending_change_section_id"`
	PendingChangeDay       int       `gorm:"column:pending_change_day;not null;uniqueIndex:uq_pending_cell,priority:2" json:"pending_change_day"`
	PendingChangeSlot      int       `gorm:"column:pending_change_slot;not null;uniqueIndex:uq_pending_cell,priority:3" json:"pending_change_slot"`

	PendingChangeReason  string         `gorm:"column:pending_change_reason;type:varchar(255)" json:"pending_change_reason"`
	PendingChangePayload datatypes.JSON `gorm:"column:pending_change_payload;type:jsonb" json:"pending_change_payload,omitempty"`

	PendingChangeCreatedAt time.Time `gorm:"column:pending_change_created_at;type:timestamptz;not null;autoCreateTime" json:"pending_change_created_at"`
	PendingChangeUpdatedAt time.Time `gorm:"column:pending_change_updated_at;type:timestamptz;not null;autoUpdateTime" json:"pending_change_updated_at"`
}

func (PendingChangeModel) TableName() string { return "pending_changes" }

// PendingChangePayload carries the cell content a change writes when replayed.
// Assign fills the subject/room/lab fields; ReassignFaculty fills the faculty
// fields; Unassign needs no payload (the detached instructor may be kept for
// display).
type PendingChangePayload struct {
	SubjectID   *uuid.UUID `json:"subject_id,omitempty"`
	SubjectCode string     `json:"subject_code,omitempty"`
	SubjectName string     `json:"subject_name,omitempty"`
	FacultyID   *uuid.UUID `json:"faculty_id,omitempty"`
	FacultyName string     `json:"faculty_name,omitempty"`
	RoomID      *uuid.UUID `json:"room_id,omitempty"`
	RoomName    string     `json:"room_name,omitempty"`
	IsLab       bool       `json:"is_lab,omitempty"`
}

func (p PendingChangePayload) ToJSON() datatypes.JSON {
	raw, err := json.Marshal(p)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

func (m *PendingChangeModel) ParsePayload() (PendingChangePayload, error) {
	var p PendingChangePayload
	if len(m.PendingChangePayload) == 0 {
		return p, nil
	}
	err := json.Unmarshal(m.PendingChangePayload, &p)
	return p, err
}
