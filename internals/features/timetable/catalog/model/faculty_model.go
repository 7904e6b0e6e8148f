package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type FacultyModel struct {
	FacultyID uuid.UUID `gorm:"column:faculty_id;type:uuid;default:gen_random_uuid();primaryKey" json:"faculty_id"`

	FacultyName       string `gorm:"column:faculty_name;type:varchar(160);not null" json:"faculty_name"`
	FacultyDepartment string `gorm:"column:faculty_department;type:varchar(80);not null" json:"faculty_department"`

	// weekly teaching-hour cap
	FacultyMaxHours int `gorm:"column:faculty_max_hours;not null;default:40" json:"faculty_max_hours"`

	// subject codes this instructor can teach
	FacultySubjectCodes pq.StringArray `gorm:"column:faculty_subject_codes;type:text[]" json:"faculty_subject_codes"`

	FacultyCreatedAt time.Time      `gorm:"column:faculty_created_at;type:timestamptz;not null;autoCreateTime" json:"faculty_created_at"`
	FacultyUpdatedAt time.Time      `gorm:"column:faculty_updated_at;type:timestamptz;not null;autoUpdateTime" json:"faculty_updated_at"`
	FacultyDeletedAt gorm.DeletedAt `gorm:"column:faculty_deleted_at;index" json:"faculty_deleted_at,omitempty"`
}

func (FacultyModel) TableName() string { return "faculties" }

func (f *FacultyModel) CanTeach(subjectCode string) bool {
	for _, code := range f.FacultySubjectCodes {
		if code == subjectCode {
			return true
		}
	}
	return false
}
