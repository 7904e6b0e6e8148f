package model

import (
	"time"

	"github.com/google/uuid"
)

// TimetableSlotModel is one committed assignment cell. The full set of rows
// for a section is replaced atomically on commit, so there is no soft delete.
type TimetableSlotModel struct {
	SlotID uuid.UUID `gorm:"column:slot_id;type:uuid;default:gen_random_uuid();primaryKey" json:"slot_id"`

	SlotSectionID uuid.UUID `gorm:"column:slot_section_id;type:uuid;not null;uniqueIndex:uq_slot_cell,priority:1" json:"slot_section_id"`
	SlotDay       int       `gorm:"column:slot_day;not null;uniqueIndex:uq_slot_cell,priority:2" json:"slot_day"`
	SlotNumber    int       `gorm:"column:slot_number;not null;uniqueIndex:uq_slot_cell,priority:3" json:"slot_number"`

	SlotSubjectID   uuid.UUID `gorm:"column:slot_subject_id;type:uuid;not null" json:"slot_subject_id"`
	SlotSubjectCode string    `gorm:"column:slot_subject_code;type:varchar(20);not null" json:"slot_subject_code"`
	SlotSubjectName string    `gorm:"column:slot_subject_name;type:varchar(160);not null" json:"slot_subject_name"`

	// nullable: a cell can be scheduled with the instructor still unassigned
	SlotFacultyID   *uuid.UUID `gorm:"column:slot_faculty_id;type:uuid" json:"slot_faculty_id,omitempty"`
	SlotFacultyName string     `gorm:"column:slot_faculty_name;type:varchar(160);not null;default:'TBA'" json:"slot_faculty_name"`

	SlotRoomID   *uuid.UUID `gorm:"column:slot_room_id;type:uuid" json:"slot_room_id,omitempty"`
	SlotRoomName string     `gorm:"column:slot_room_name;type:varchar(80);not null;default:'TBD'" json:"slot_room_name"`

	SlotIsLab bool `gorm:"column:slot_is_lab;not null;default:false" json:"slot_is_lab"`

	SlotCreatedAt time.Time `gorm:"column:slot_created_at;type:timestamptz;not null;autoCreateTime" json:"slot_created_at"`
	SlotUpdatedAt time.Time `gorm:"column:slot_updated_at;type:timestamptz;not null;autoUpdateTime" json:"slot_updated_at"`
}

func (TimetableSlotModel) TableName() string { return "timetable_slots" }
