package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SectionModel is one cohort (department + year + letter + semester); it owns
// exactly one weekly grid in timetable_slots.
type SectionModel struct {
	SectionID uuid.UUID `gorm:"column:section_id;type:uuid;default:gen_random_uuid();primaryKey" json:"section_id"`

	SectionDepartment   string `gorm:"column:section_department;type:varchar(80);not null" json:"section_department"`
	SectionAcademicYear int    `gorm:"column:section_academic_year;not null" json:"section_academic_year"`
	SectionLetter       string `gorm:"column:section_letter;type:varchar(4);not null" json:"section_letter"`
	SectionSemester     int    `gorm:"column:section_semester;not null" json:"section_semester"`

	SectionCreatedAt time.Time      `gorm:"column:section_created_at;type:timestamptz;not null;autoCreateTime" json:"section_created_at"`
	SectionUpdatedAt time.Time      `gorm:"column:section_updated_at;type:timestamptz;not null;autoUpdateTime" json:"section_updated_at"`
	SectionDeletedAt gorm.DeletedAt `gorm:"column:section_deleted_at;index" json:"section_deleted_at,omitempty"`
}

func (SectionModel) TableName() string { return "sections" }
