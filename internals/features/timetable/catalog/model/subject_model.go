package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID uuid.UUID `gorm:"column:subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subject_id"`

	SubjectCode       string `gorm:"column:subject_code;type:varchar(20);not null;uniqueIndex" json:"subject_code"`
	SubjectName       string `gorm:"column:subject_name;type:varchar(160);not null" json:"subject_name"`
	SubjectDepartment string `gorm:"column:subject_department;type:varchar(80);not null" json:"subject_department"`
	SubjectSemester   int    `gorm:"column:subject_semester;not null" json:"subject_semester"`

	// weekly budget: theory + lab hours together cap the grid occurrences
	SubjectTheoryHours int  `gorm:"column:subject_theory_hours;not null;default:3" json:"subject_theory_hours"`
	SubjectLabHours    int  `gorm:"column:subject_lab_hours;not null;default:0" json:"subject_lab_hours"`
	SubjectIsLab       bool `gorm:"column:subject_is_lab;not null;default:false" json:"subject_is_lab"`

	SubjectCreatedAt time.Time      `gorm:"column:subject_created_at;type:timestamptz;not null;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time      `gorm:"column:subject_updated_at;type:timestamptz;not null;autoUpdateTime" json:"subject_updated_at"`
	SubjectDeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"subject_deleted_at,omitempty"`
}

func (SubjectModel) TableName() string { return "subjects" }

// WeeklyHours is the configured weekly occurrence budget for the subject.
func (s *SubjectModel) WeeklyHours() int {
	total := s.SubjectTheoryHours + s.SubjectLabHours
	if total <= 0 {
		total = 3
	}
	return total
}
