package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

/* =========================
   Days & slots
   ========================= */

// Day is a teaching weekday, Monday through Saturday.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d Day) String() string {
	if d < Monday || d > Saturday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

func (d Day) Valid() bool { return d >= Monday && d <= Saturday }

func ParseDay(s string) (Day, error) {
	for i, name := range dayNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// Slot is one of six fixed teaching periods. The mid-morning break and lunch
// sit between slots 2/3 and 4/5 and are never addressable.
type Slot int

const (
	MinSlot Slot = 1
	MaxSlot Slot = 6

	// Saturday has a short day
	saturdayMaxSlot Slot = 4
)

var slotLabels = map[Slot]string{
	1: "9:00 - 10:00",
	2: "10:00 - 11:00",
	3: "11:30 - 12:30",
	4: "12:30 - 1:30",
	5: "2:30 - 3:30",
	6: "3:30 - 4:30",
}

func (s Slot) Label() string { return slotLabels[s] }

// SlotsForDay is the last usable slot of the day: 4 on Saturday, 6 otherwise.
func SlotsForDay(d Day) Slot {
	if d == Saturday {
		return saturdayMaxSlot
	}
	return MaxSlot
}

// SlotUsable reports whether (day, slot) is an addressable cell.
func SlotUsable(d Day, s Slot) bool {
	return d.Valid() && s >= MinSlot && s <= SlotsForDay(d)
}

// LabPairStart returns the odd anchor slot of the lab pair containing s.
func LabPairStart(s Slot) Slot {
	if s%2 == 0 {
		return s - 1
	}
	return s
}

/* =========================
   Assignments
   ========================= */

const (
	// FacultyTBA marks a cell whose instructor is unassigned.
	FacultyTBA = "TBA"
	// RoomTBD marks a cell placed without a room decision yet.
	RoomTBD = "TBD"
)

// Assignment is the value occupying one grid cell.
type Assignment struct {
	SubjectID   uuid.UUID
	SubjectCode string
	SubjectName string

	FacultyID   *uuid.UUID
	FacultyName string

	RoomID   *uuid.UUID
	RoomName string

	IsLab bool
}

func (a *Assignment) FacultyUnassigned() bool { return a == nil || a.FacultyID == nil }

// Clone returns an independent copy (lab pairs hold two copies, never one
// shared pointer).
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	cp := *a
	if a.FacultyID != nil {
		fid := *a.FacultyID
		cp.FacultyID = &fid
	}
	if a.RoomID != nil {
		rid := *a.RoomID
		cp.RoomID = &rid
	}
	return &cp
}

func (a *Assignment) equalPair(b *Assignment) bool {
	if a == nil || b == nil {
		return false
	}
	return a.SubjectCode == b.SubjectCode &&
		a.FacultyName == b.FacultyName &&
		a.RoomName == b.RoomName &&
		a.IsLab && b.IsLab
}

/* =========================
   Dragged items
   ========================= */

type DragKind string

const (
	DragSubject DragKind = "subject"
	DragFaculty DragKind = "faculty"
)

type SubjectInfo struct {
	ID          uuid.UUID
	Code        string
	Name        string
	WeeklyHours int
	IsLab       bool
}

type FacultyInfo struct {
	ID         uuid.UUID
	Name       string
	Department string
	MaxHours   int
}

// DraggedItem is the tagged variant picked up by an editing surface: either a
// subject token or a faculty token.
type DraggedItem struct {
	Kind    DragKind
	Subject *SubjectInfo
	Faculty *FacultyInfo
}

func (it DraggedItem) valid() bool {
	switch it.Kind {
	case DragSubject:
		return it.Subject != nil
	case DragFaculty:
		return it.Faculty != nil
	}
	return false
}
