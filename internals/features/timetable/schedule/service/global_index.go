package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	m "timetable_backend/internals/features/timetable/schedule/model"
)

// BusyRef is one committed booking of a shared resource.
type BusyRef struct {
	SectionID   uuid.UUID `json:"section_id"`
	Day         Day       `json:"day"`
	Slot        Slot      `json:"slot"`
	SubjectCode string    `json:"subject_code"`
	SubjectName string    `json:"subject_name"`
	RoomName    string    `json:"room_name"`
	IsLab       bool      `json:"is_lab"`
}

// GlobalScheduleIndex answers "is resource X busy at (day, slot)?" across all
// sections. It reflects committed data only: pending, unsaved edits are
// deliberately not merged in, so checks run against the authoritative world
// plus the one proposed change under evaluation. Rebuilt eagerly on load and
// after each successful commit, never mutated by speculative edits.
type GlobalScheduleIndex struct {
	mu sync.RWMutex

	facultyBusy map[uuid.UUID][]BusyRef
	roomBusy    map[uuid.UUID][]BusyRef
	rebuiltAt   time.Time
}

func NewGlobalScheduleIndex() *GlobalScheduleIndex {
	return &GlobalScheduleIndex{
		facultyBusy: make(map[uuid.UUID][]BusyRef),
		roomBusy:    make(map[uuid.UUID][]BusyRef),
	}
}

// Rebuild replaces the busy-sets with a full scan of every section's
// committed slots. O(total assignments).
func (x *GlobalScheduleIndex) Rebuild(allSections map[uuid.UUID][]m.TimetableSlotModel) {
	facultyBusy := make(map[uuid.UUID][]BusyRef)
	roomBusy := make(map[uuid.UUID][]BusyRef)

	for sectionID, records := range allSections {
		for i := range records {
			rec := &records[i]
			ref := BusyRef{
				SectionID:   sectionID,
				Day:         Day(rec.SlotDay),
				Slot:        Slot(rec.SlotNumber),
				SubjectCode: rec.SlotSubjectCode,
				SubjectName: rec.SlotSubjectName,
				RoomName:    rec.SlotRoomName,
				IsLab:       rec.SlotIsLab,
			}
			if rec.SlotFacultyID != nil {
				facultyBusy[*rec.SlotFacultyID] = append(facultyBusy[*rec.SlotFacultyID], ref)
			}
			if rec.SlotRoomID != nil {
				roomBusy[*rec.SlotRoomID] = append(roomBusy[*rec.SlotRoomID], ref)
			}
		}
	}

	x.mu.Lock()
	x.facultyBusy = facultyBusy
	x.roomBusy = roomBusy
	x.rebuiltAt = time.Now()
	x.mu.Unlock()
}

// RebuiltAt is zero until the first rebuild; callers use it to surface a
// stale-index advisory.
func (x *GlobalScheduleIndex) RebuiltAt() time.Time {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.rebuiltAt
}

// IsFacultyBusy reports a committed booking for the instructor at (day, slot)
// in any section other than the excluded one (the section under edit, so a
// re-assignment in place is not a self-conflict).
func (x *GlobalScheduleIndex) IsFacultyBusy(facultyID uuid.UUID, day Day, slot Slot, excludingSectionID uuid.UUID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, ref := range x.facultyBusy[facultyID] {
		if ref.Day == day && ref.Slot == slot && ref.SectionID != excludingSectionID {
			return true
		}
	}
	return false
}

func (x *GlobalScheduleIndex) IsRoomBusy(roomID uuid.UUID, day Day, slot Slot, excludingSectionID uuid.UUID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, ref := range x.roomBusy[roomID] {
		if ref.Day == day && ref.Slot == slot && ref.SectionID != excludingSectionID {
			return true
		}
	}
	return false
}

// FacultyLoad is the instructor's committed weekly assignment count, compared
// against their max-hours cap.
func (x *GlobalScheduleIndex) FacultyLoad(facultyID uuid.UUID) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.facultyBusy[facultyID])
}

// FacultySchedule returns the instructor's committed roster (copy).
func (x *GlobalScheduleIndex) FacultySchedule(facultyID uuid.UUID) []BusyRef {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]BusyRef, len(x.facultyBusy[facultyID]))
	copy(out, x.facultyBusy[facultyID])
	return out
}

// RoomSchedule returns the room's committed roster (copy).
func (x *GlobalScheduleIndex) RoomSchedule(roomID uuid.UUID) []BusyRef {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]BusyRef, len(x.roomBusy[roomID]))
	copy(out, x.roomBusy[roomID])
	return out
}
