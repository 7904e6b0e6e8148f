package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"timetable_backend/internals/configs"
	ctl "timetable_backend/internals/features/timetable/schedule/controller"
	"timetable_backend/internals/features/timetable/schedule/service"
	"timetable_backend/internals/middlewares"
)

// ScheduleRoutes: grid editing, validation, and commit endpoints.
func ScheduleRoutes(api fiber.Router, db *gorm.DB) {
	var remote service.RemoteValidator
	if configs.RemoteValidatorURL != "" {
		remote = service.NewRemoteValidatorHTTPClient(
			configs.RemoteValidatorURL,
			service.DefaultRemoteValidatorHTTPClient(),
		)
	}
	schedule := ctl.NewScheduleController(db, remote)

	api.Get("/all", schedule.GetAll)
	api.Get("/unresolved", schedule.ListUnresolved)
	api.Get("/faculty/:id/schedule", schedule.FacultySchedule)
	api.Get("/room/:id/schedule", schedule.RoomSchedule)

	section := api.Group("/section/:id")
	section.Get("/", schedule.GetSection)
	section.Post("/propose", schedule.ProposeEdit)
	section.Post("/confirm", schedule.ConfirmEdit)
	section.Post("/cancel", schedule.CancelEdit)
	section.Delete("/slot", schedule.RemoveSlot)
	section.Post("/reset", schedule.ResetSection)
	section.Post("/commit", middlewares.CommitRateLimiter(), schedule.CommitSection)

	api.Post("/commit-all", middlewares.CommitRateLimiter(), schedule.CommitAll)
}
