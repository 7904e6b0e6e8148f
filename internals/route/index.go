package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	catalogRoute "timetable_backend/internals/features/timetable/catalog/route"
	scheduleRoute "timetable_backend/internals/features/timetable/schedule/route"
	middlewares "timetable_backend/internals/middlewares"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app)

	api := app.Group("/api/timetable", middlewares.DBMiddleware(db))

	log.Println("[INFO] Setting up CatalogRoutes...")
	catalogRoute.CatalogRoutes(api, db)

	log.Println("[INFO] Setting up ScheduleRoutes...")
	scheduleRoute.ScheduleRoutes(api, db)
}
