package controller

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	d "timetable_backend/internals/features/timetable/catalog/dto"
	m "timetable_backend/internals/features/timetable/catalog/model"
	helper "timetable_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type CatalogController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *CatalogController {
	return &CatalogController{DB: db, Validate: v}
}

/* =========================
   Sections
   ========================= */

func (ctl *CatalogController) ListSections(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)

	var total int64
	if err := ctl.DB.WithContext(c.Context()).Model(&m.SectionModel{}).Count(&total).Error; err != nil {
		log.Printf("[Catalog.ListSections] count error: %v", err)
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []m.SectionModel
	if err := ctl.DB.WithContext(c.Context()).
		Order("section_department ASC, section_semester ASC, section_letter ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		log.Printf("[Catalog.ListSections] query error: %v", err)
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	out := make([]d.SectionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, d.NewSectionResponse(&rows[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"sections":   out,
		"pagination": helper.BuildPagination(total, len(out), p),
	})
}

/* =========================
   Subjects
   ========================= */

func (ctl *CatalogController) ListSubjects(c *fiber.Ctx) error {
	var q d.ListSubjectsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if ctl.Validate != nil {
		if err := ctl.Validate.Struct(q); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	var rows []m.SubjectModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("subject_department = ? AND subject_semester = ?", strings.TrimSpace(q.Department), q.Semester).
		Order("subject_code ASC").
		Find(&rows).Error; err != nil {
		log.Printf("[Catalog.ListSubjects] query error: %v", err)
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	out := make([]d.SubjectResponse, 0, len(rows))
	for i := range rows {
		out = append(out, d.NewSubjectResponse(&rows[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{"subjects": out})
}

/* =========================
   Faculty
   ========================= */

func (ctl *CatalogController) ListFaculty(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 100, 500)

	tx := ctl.DB.WithContext(c.Context()).Model(&m.FacultyModel{})
	if dep := strings.TrimSpace(c.Query("department")); dep != "" {
		tx = tx.Where("faculty_department = ?", dep)
	}
	// filter to instructors competent for one subject code
	if code := strings.TrimSpace(c.Query("subject_code")); code != "" {
		tx = tx.Where("? = ANY(faculty_subject_codes)", code)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		log.Printf("[Catalog.ListFaculty] count error: %v", err)
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var rows []m.FacultyModel
	if err := tx.Order("faculty_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		log.Printf("[Catalog.ListFaculty] query error: %v", err)
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	out := make([]d.FacultyResponse, 0, len(rows))
	for i := range rows {
		out = append(out, d.NewFacultyResponse(&rows[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"faculty":    out,
		"pagination": helper.BuildPagination(total, len(out), p),
	})
}

/* =========================
   Rooms
   ========================= */

func (ctl *CatalogController) ListRooms(c *fiber.Ctx) error {
	tx := ctl.DB.WithContext(c.Context()).Model(&m.RoomModel{})
	if typ := strings.TrimSpace(c.Query("type")); typ != "" {
		tx = tx.Where("room_type = ?", typ)
	}

	var rows []m.RoomModel
	if err := tx.Order("room_name ASC").Find(&rows).Error; err != nil {
		log.Printf("[Catalog.ListRooms] query error: %v", err)
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	out := make([]d.RoomResponse, 0, len(rows))
	for i := range rows {
		out = append(out, d.NewRoomResponse(&rows[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{"rooms": out})
}
