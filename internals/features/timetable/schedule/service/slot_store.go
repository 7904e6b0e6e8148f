package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

// SlotStore is the boundary to the authoritative schedule store.
type SlotStore interface {
	FetchSectionSlots(ctx context.Context, sectionID uuid.UUID) ([]m.TimetableSlotModel, error)
	FetchAllSectionSlots(ctx context.Context) (map[uuid.UUID][]m.TimetableSlotModel, error)
	// ReplaceSectionSlots swaps a section's full assignment set atomically.
	ReplaceSectionSlots(ctx context.Context, sectionID uuid.UUID, records []m.TimetableSlotModel) error
}

type GormSlotStore struct {
	DB *gorm.DB
}

func NewGormSlotStore(db *gorm.DB) *GormSlotStore {
	return &GormSlotStore{DB: db}
}

func (s *GormSlotStore) FetchSectionSlots(ctx context.Context, sectionID uuid.UUID) ([]m.TimetableSlotModel, error) {
	var rows []m.TimetableSlotModel
	err := s.DB.WithContext(ctx).
		Where("slot_section_id = ?", sectionID).
		Order("slot_day ASC, slot_number ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormSlotStore) FetchAllSectionSlots(ctx context.Context) (map[uuid.UUID][]m.TimetableSlotModel, error) {
	var rows []m.TimetableSlotModel
	if err := s.DB.WithContext(ctx).
		Order("slot_section_id ASC, slot_day ASC, slot_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]m.TimetableSlotModel)
	for i := range rows {
		out[rows[i].SlotSectionID] = append(out[rows[i].SlotSectionID], rows[i])
	}
	return out, nil
}

func (s *GormSlotStore) ReplaceSectionSlots(ctx context.Context, sectionID uuid.UUID, records []m.TimetableSlotModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slot_section_id = ?", sectionID).Delete(&m.TimetableSlotModel{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for i := range records {
			records[i].SlotID = uuid.Nil
			records[i].SlotSectionID = sectionID
		}
		return tx.Create(&records).Error
	})
}
