package controller

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogModel "timetable_backend/internals/features/timetable/catalog/model"
	"timetable_backend/internals/features/timetable/schedule/dto"
	"timetable_backend/internals/features/timetable/schedule/service"
	helper "timetable_backend/internals/helpers"
)

// ScheduleController holds one in-memory editing session per section. A
// session owns that section's grid exclusively; the mutex only guards the
// session registry, not the grids themselves.
type ScheduleController struct {
	DB          *gorm.DB
	Validate    *validator.Validate
	Store       service.SlotStore
	Log         service.PendingChangeLog
	Index       *service.GlobalScheduleIndex
	Coordinator *service.CommitCoordinator
	Remote      service.RemoteValidator

	mu       sync.Mutex
	sessions map[uuid.UUID]*service.AssignmentEditor
}

func NewScheduleController(db *gorm.DB, remote service.RemoteValidator) *ScheduleController {
	store := service.NewGormSlotStore(db)
	logBk := service.NewGormPendingChangeLog(db)
	index := service.NewGlobalScheduleIndex()
	return &ScheduleController{
		DB:          db,
		Validate:    validator.New(),
		Store:       store,
		Log:         logBk,
		Index:       index,
		Coordinator: service.NewCommitCoordinator(store, logBk, index),
		Remote:      remote,
		sessions:    make(map[uuid.UUID]*service.AssignmentEditor),
	}
}

/* =========================
   Section grids
   ========================= */

// GetSection loads a section's grid, replays its pending changes, and opens
// (or reopens) the editing session.
// GET /api/timetable/section/:id
func (ctl *ScheduleController) GetSection(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}
	ctx := c.UserContext()

	if err := ctl.ensureIndex(ctx); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build schedule index")
	}

	editor, pending, err := ctl.openSession(ctx, sectionID)
	if err != nil {
		return ctl.mapLoadError(c, err)
	}

	return helper.JsonOK(c, "Section schedule fetched",
		dto.NewGridResponse(editor.Grid(), pending, ctl.Index.RebuiltAt()))
}

// GetAll returns every section's grid with pending changes applied.
// GET /api/timetable/all
func (ctl *ScheduleController) GetAll(c *fiber.Ctx) error {
	ctx := c.UserContext()

	all, err := ctl.Store.FetchAllSectionSlots(ctx)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedules")
	}

	grids := make([]dto.GridResponse, 0, len(all))
	for sectionID, records := range all {
		grid, err := service.LoadGrid(sectionID, records)
		if err != nil {
			// corrupted data is fatal to that section's load only
			log.Printf("[Schedule] skipping section %s: %v", sectionID, err)
			continue
		}
		entries, err := ctl.Log.EntriesFor(ctx, sectionID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch pending changes")
		}
		grid.ApplyOverlay(entries)
		grids = append(grids, dto.NewGridResponse(grid, len(entries), ctl.Index.RebuiltAt()))
	}

	return helper.JsonOK(c, "Schedules fetched", grids)
}

/* =========================
   Edits
   ========================= */

// ProposeEdit runs one drag-and-drop edit through validation.
// POST /api/timetable/section/:id/propose
func (ctl *ScheduleController) ProposeEdit(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}

	var req dto.ProposeEditRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	day, err := service.ParseDay(req.Day)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	slot := service.Slot(req.Slot)

	ctx := c.UserContext()
	if err := ctl.ensureIndex(ctx); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build schedule index")
	}

	editor, err := ctl.sessionFor(ctx, sectionID)
	if err != nil {
		return ctl.mapLoadError(c, err)
	}

	item, err := ctl.resolveDraggedItem(ctx, req.Item)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Dragged item not found")
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := editor.BeginDrag(item); err != nil {
		if errors.Is(err, service.ErrConfirmationPending) {
			return helper.JsonError(c, fiber.StatusConflict, "An edit is awaiting confirmation; confirm or cancel it first")
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := editor.Drop(ctx, day, slot, req.Reason)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to record edit")
	}
	return ctl.respondDrop(c, result)
}

// ConfirmEdit applies an edit held back by warning conflicts.
// POST /api/timetable/section/:id/confirm
func (ctl *ScheduleController) ConfirmEdit(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}

	editor := ctl.existingSession(sectionID)
	if editor == nil {
		return helper.JsonError(c, fiber.StatusConflict, "No edit awaiting confirmation")
	}

	result, err := editor.Confirm(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrNothingToConfirm) {
			return helper.JsonError(c, fiber.StatusConflict, "No edit awaiting confirmation")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to record edit")
	}
	return ctl.respondDrop(c, result)
}

// CancelEdit discards any in-flight drag or staged confirmation.
// POST /api/timetable/section/:id/cancel
func (ctl *ScheduleController) CancelEdit(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}
	if editor := ctl.existingSession(sectionID); editor != nil {
		editor.Cancel()
	}
	return helper.JsonOK(c, "Edit cancelled", nil)
}

// RemoveSlot detaches the instructor from an occupied cell and records the
// removal as a pending change.
// DELETE /api/timetable/section/:id/slot
func (ctl *ScheduleController) RemoveSlot(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}

	var req dto.RemoveAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	day, err := service.ParseDay(req.Day)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	editor, err := ctl.sessionFor(ctx, sectionID)
	if err != nil {
		return ctl.mapLoadError(c, err)
	}

	if err := editor.RemoveAssignment(ctx, day, service.Slot(req.Slot), req.Reason); err != nil {
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}

	entries, err := ctl.Log.EntriesFor(ctx, sectionID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch pending changes")
	}
	return helper.JsonOK(c, "Assignment removed",
		dto.NewGridResponse(editor.Grid(), len(entries), ctl.Index.RebuiltAt()))
}

/* =========================
   Commit & reset
   ========================= */

// CommitSection flushes one section's edited grid to the authoritative store.
// POST /api/timetable/section/:id/commit
func (ctl *ScheduleController) CommitSection(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}

	ctx := c.UserContext()
	editor, err := ctl.sessionFor(ctx, sectionID)
	if err != nil {
		return ctl.mapLoadError(c, err)
	}

	if err := ctl.Coordinator.Commit(ctx, editor.Grid()); err != nil {
		var cf *service.CommitFailure
		if errors.As(err, &cf) {
			return helper.JsonError(c, fiber.StatusBadGateway, "Commit failed; pending changes were kept for retry")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "Section schedule committed",
		dto.NewGridResponse(editor.Grid(), 0, ctl.Index.RebuiltAt()))
}

// CommitAll commits every section that holds pending changes, each
// independently.
// POST /api/timetable/commit-all
func (ctl *ScheduleController) CommitAll(c *fiber.Ctx) error {
	ctx := c.UserContext()

	sectionIDs, err := ctl.Log.SectionsWithChanges(ctx)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch pending changes")
	}

	grids := make([]*service.ScheduleGrid, 0, len(sectionIDs))
	for _, sectionID := range sectionIDs {
		editor, err := ctl.sessionFor(ctx, sectionID)
		if err != nil {
			return ctl.mapLoadError(c, err)
		}
		grids = append(grids, editor.Grid())
	}

	results := ctl.Coordinator.CommitMany(ctx, grids)
	return helper.JsonOK(c, "Commit finished", results)
}

// ResetSection discards a section's pending changes and reloads the
// authoritative grid.
// POST /api/timetable/section/:id/reset
func (ctl *ScheduleController) ResetSection(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}

	ctx := c.UserContext()
	if err := ctl.Log.Clear(ctx, sectionID); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to discard pending changes")
	}

	editor, _, err := ctl.openSession(ctx, sectionID)
	if err != nil {
		return ctl.mapLoadError(c, err)
	}
	return helper.JsonOK(c, "Pending changes discarded",
		dto.NewGridResponse(editor.Grid(), 0, ctl.Index.RebuiltAt()))
}

/* =========================
   Cross-section views
   ========================= */

// ListUnresolved surfaces sections holding pending instructor removals.
// GET /api/timetable/unresolved
func (ctl *ScheduleController) ListUnresolved(c *fiber.Ctx) error {
	rows, err := ctl.Log.UnassignedSections(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch unresolved sections")
	}
	return helper.JsonOK(c, "Unresolved sections fetched", rows)
}

// FacultySchedule returns an instructor's committed roster across all
// sections.
// GET /api/timetable/faculty/:id/schedule
func (ctl *ScheduleController) FacultySchedule(c *fiber.Ctx) error {
	facultyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid faculty id")
	}
	ctx := c.UserContext()
	if err := ctl.ensureIndex(ctx); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build schedule index")
	}
	return helper.JsonOK(c, "Faculty schedule fetched",
		dto.NewBusyRefResponses(ctl.Index.FacultySchedule(facultyID)))
}

// RoomSchedule returns a room's committed roster across all sections.
// GET /api/timetable/room/:id/schedule
func (ctl *ScheduleController) RoomSchedule(c *fiber.Ctx) error {
	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid room id")
	}
	ctx := c.UserContext()
	if err := ctl.ensureIndex(ctx); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build schedule index")
	}
	return helper.JsonOK(c, "Room schedule fetched",
		dto.NewBusyRefResponses(ctl.Index.RoomSchedule(roomID)))
}

/* =========================
   Internal
   ========================= */

func (ctl *ScheduleController) ensureIndex(ctx context.Context) error {
	if !ctl.Index.RebuiltAt().IsZero() {
		return nil
	}
	return ctl.Coordinator.RefreshIndex(ctx)
}

// openSession rebuilds the section's session from the store plus its overlay,
// replacing any existing one. Returns the pending-change count alongside.
func (ctl *ScheduleController) openSession(ctx context.Context, sectionID uuid.UUID) (*service.AssignmentEditor, int, error) {
	records, err := ctl.Store.FetchSectionSlots(ctx, sectionID)
	if err != nil {
		return nil, 0, err
	}
	grid, err := service.LoadGrid(sectionID, records)
	if err != nil {
		return nil, 0, err
	}
	entries, err := ctl.Log.EntriesFor(ctx, sectionID)
	if err != nil {
		return nil, 0, err
	}
	grid.ApplyOverlay(entries)

	editor := service.NewAssignmentEditor(grid, ctl.Index, ctl.Log, ctl.Remote)
	ctl.mu.Lock()
	ctl.sessions[sectionID] = editor
	ctl.mu.Unlock()

	return editor, len(entries), nil
}

// sessionFor returns the open session, opening one on demand.
func (ctl *ScheduleController) sessionFor(ctx context.Context, sectionID uuid.UUID) (*service.AssignmentEditor, error) {
	if editor := ctl.existingSession(sectionID); editor != nil {
		return editor, nil
	}
	editor, _, err := ctl.openSession(ctx, sectionID)
	return editor, err
}

func (ctl *ScheduleController) existingSession(sectionID uuid.UUID) *service.AssignmentEditor {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.sessions[sectionID]
}

// resolveDraggedItem hydrates the drag token from the catalog.
func (ctl *ScheduleController) resolveDraggedItem(ctx context.Context, req dto.DraggedItemRequest) (service.DraggedItem, error) {
	switch service.DragKind(req.Kind) {
	case service.DragSubject:
		if req.SubjectID == nil {
			return service.DraggedItem{}, errors.New("subject_id is required for a subject drop")
		}
		var sub catalogModel.SubjectModel
		if err := ctl.DB.WithContext(ctx).First(&sub, "subject_id = ?", *req.SubjectID).Error; err != nil {
			return service.DraggedItem{}, err
		}
		item := service.DraggedItem{
			Kind: service.DragSubject,
			Subject: &service.SubjectInfo{
				ID:          sub.SubjectID,
				Code:        sub.SubjectCode,
				Name:        sub.SubjectName,
				WeeklyHours: sub.WeeklyHours(),
				IsLab:       sub.SubjectIsLab,
			},
		}
		if req.FacultyID != nil {
			fac, err := ctl.fetchFaculty(ctx, *req.FacultyID)
			if err != nil {
				return service.DraggedItem{}, err
			}
			item.Faculty = fac
		}
		return item, nil

	case service.DragFaculty:
		if req.FacultyID == nil {
			return service.DraggedItem{}, errors.New("faculty_id is required for a faculty drop")
		}
		fac, err := ctl.fetchFaculty(ctx, *req.FacultyID)
		if err != nil {
			return service.DraggedItem{}, err
		}
		return service.DraggedItem{Kind: service.DragFaculty, Faculty: fac}, nil
	}
	return service.DraggedItem{}, errors.New("unknown dragged item kind")
}

func (ctl *ScheduleController) fetchFaculty(ctx context.Context, id uuid.UUID) (*service.FacultyInfo, error) {
	var fac catalogModel.FacultyModel
	if err := ctl.DB.WithContext(ctx).First(&fac, "faculty_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service.FacultyInfo{
		ID:         fac.FacultyID,
		Name:       fac.FacultyName,
		Department: fac.FacultyDepartment,
		MaxHours:   fac.FacultyMaxHours,
	}, nil
}

func (ctl *ScheduleController) respondDrop(c *fiber.Ctx, result service.DropResult) error {
	switch result.Status {
	case service.DropRejected:
		return helper.JsonErrorWithDetails(c, fiber.StatusConflict, "Edit rejected", result)
	case service.DropNeedsConfirmation:
		return helper.JsonOK(c, "Edit needs confirmation", result)
	case service.DropNoop:
		return helper.JsonOK(c, result.Message, result)
	default:
		return helper.JsonOK(c, "Edit recorded", result)
	}
}

func (ctl *ScheduleController) mapLoadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMalformedSlot):
		log.Printf("[Schedule] corrupted slot data: %v", err)
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Stored schedule data is malformed")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Section not found")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load section schedule")
	}
}
