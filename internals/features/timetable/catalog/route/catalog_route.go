package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ctl "timetable_backend/internals/features/timetable/catalog/controller"
)

// CatalogRoutes: read-only reference data for the editing surfaces.
func CatalogRoutes(api fiber.Router, db *gorm.DB) {
	catalog := ctl.New(db, validator.New())

	api.Get("/sections", catalog.ListSections)
	api.Get("/subjects", catalog.ListSubjects)
	api.Get("/faculty", catalog.ListFaculty)
	api.Get("/rooms", catalog.ListRooms)
}
