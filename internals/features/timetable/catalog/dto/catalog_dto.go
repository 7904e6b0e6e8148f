package dto

import (
	"github.com/google/uuid"

	m "timetable_backend/internals/features/timetable/catalog/model"
)

/* =========================
   List queries
   ========================= */

type ListSubjectsQuery struct {
	Department string `query:"department" validate:"required"`
	Semester   int    `query:"semester" validate:"required,min=1,max=8"`
}

/* =========================
   Responses
   ========================= */

type SectionResponse struct {
	SectionID    uuid.UUID `json:"section_id"`
	Department   string    `json:"department"`
	AcademicYear int       `json:"academic_year"`
	Letter       string    `json:"letter"`
	Semester     int       `json:"semester"`
}

func NewSectionResponse(s *m.SectionModel) SectionResponse {
	return SectionResponse{
		SectionID:    s.SectionID,
		Department:   s.SectionDepartment,
		AcademicYear: s.SectionAcademicYear,
		Letter:       s.SectionLetter,
		Semester:     s.SectionSemester,
	}
}

type SubjectResponse struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Department  string    `json:"department"`
	Semester    int       `json:"semester"`
	TheoryHours int       `json:"theory_hours"`
	LabHours    int       `json:"lab_hours"`
	WeeklyHours int       `json:"weekly_hours"`
	IsLab       bool      `json:"is_lab"`
}

func NewSubjectResponse(s *m.SubjectModel) SubjectResponse {
	return SubjectResponse{
		SubjectID:   s.SubjectID,
		Code:        s.SubjectCode,
		Name:        s.SubjectName,
		Department:  s.SubjectDepartment,
		Semester:    s.SubjectSemester,
		TheoryHours: s.SubjectTheoryHours,
		LabHours:    s.SubjectLabHours,
		WeeklyHours: s.WeeklyHours(),
		IsLab:       s.SubjectIsLab,
	}
}

type FacultyResponse struct {
	FacultyID    uuid.UUID `json:"faculty_id"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	MaxHours     int       `json:"max_hours"`
	SubjectCodes []string  `json:"subject_codes"`
}

func NewFacultyResponse(f *m.FacultyModel) FacultyResponse {
	return FacultyResponse{
		FacultyID:    f.FacultyID,
		Name:         f.FacultyName,
		Department:   f.FacultyDepartment,
		MaxHours:     f.FacultyMaxHours,
		SubjectCodes: f.FacultySubjectCodes,
	}
}

type RoomResponse struct {
	RoomID   uuid.UUID `json:"room_id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Capacity int       `json:"capacity"`
}

func NewRoomResponse(r *m.RoomModel) RoomResponse {
	return RoomResponse{
		RoomID:   r.RoomID,
		Name:     r.RoomName,
		Type:     string(r.RoomType),
		Capacity: r.RoomCapacity,
	}
}
