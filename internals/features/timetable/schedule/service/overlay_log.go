package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

// SectionChangeCount is one entry of the cross-surface "needs attention" feed.
type SectionChangeCount struct {
	SectionID uuid.UUID `json:"section_id"`
	Count     int       `json:"count"`
}

// PendingChangeLog is the durable overlay of not-yet-committed edits, shared
// by every editing surface (section grid, faculty roster, room roster). It is
// the single source of truth for edits in flight, which is why it is not
// private per-view state: it only ever shrinks via Clear.
type PendingChangeLog interface {
	// Record upserts by (section, day, slot): last writer wins per key.
	Record(ctx context.Context, change *m.PendingChangeModel) error
	EntriesFor(ctx context.Context, sectionID uuid.UUID) ([]m.PendingChangeModel, error)
	// Clear removes a section's entries; called only after a successful commit
	// or an explicit discard.
	Clear(ctx context.Context, sectionID uuid.UUID) error
	// UnassignedSections aggregates sections holding Unassign entries, the
	// mechanism that surfaces a faculty/room-view removal in the section view.
	UnassignedSections(ctx context.Context) ([]SectionChangeCount, error)
	// SectionsWithChanges lists every section holding any pending entry.
	SectionsWithChanges(ctx context.Context) ([]uuid.UUID, error)
}

/* =========================
   GORM-backed implementation
   ========================= */

type GormPendingChangeLog struct {
	DB *gorm.DB
}

func NewGormPendingChangeLog(db *gorm.DB) *GormPendingChangeLog {
	return &GormPendingChangeLog{DB: db}
}

func (l *GormPendingChangeLog) Record(ctx context.Context, change *m.PendingChangeModel) error {
	return l.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "pending_change_section_id"},
			{Name: "pending_change_day"},
			{Name: "pending_change_slot"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"pending_change_kind",
			"pending_change_reason",
			"pending_change_payload",
			"pending_change_updated_at",
		}),
	}).Create(change).Error
}

func (l *GormPendingChangeLog) EntriesFor(ctx context.Context, sectionID uuid.UUID) ([]m.PendingChangeModel, error) {
	var rows []m.PendingChangeModel
	err := l.DB.WithContext(ctx).
		Where("pending_change_section_id = ?", sectionID).
		Order("pending_change_day ASC, pending_change_slot ASC").
		Find(&rows).Error
	return rows, err
}

func (l *GormPendingChangeLog) Clear(ctx context.Context, sectionID uuid.UUID) error {
	return l.DB.WithContext(ctx).
		Where("pending_change_section_id = ?", sectionID).
		Delete(&m.PendingChangeModel{}).Error
}

func (l *GormPendingChangeLog) UnassignedSections(ctx context.Context) ([]SectionChangeCount, error) {
	var rows []SectionChangeCount
	err := l.DB.WithContext(ctx).
		Model(&m.PendingChangeModel{}).
		Select("pending_change_section_id AS section_id, COUNT(*) AS count").
		Where("pending_change_kind = ?", m.PendingUnassign).
		Group("pending_change_section_id").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (l *GormPendingChangeLog) SectionsWithChanges(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := l.DB.WithContext(ctx).
		Model(&m.PendingChangeModel{}).
		Distinct("pending_change_section_id").
		Pluck("pending_change_section_id", &ids).Error
	return ids, err
}
