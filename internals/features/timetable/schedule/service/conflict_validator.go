package service

import (
	"fmt"

	"github.com/google/uuid"
)

/* =========================
   Conflicts
   ========================= */

type ConflictSeverity string

const (
	// SeverityError blocks the edit.
	SeverityError ConflictSeverity = "error"
	// SeverityWarning requires explicit confirmation.
	SeverityWarning ConflictSeverity = "warning"
	// SeverityInfo is surfaced but never blocks.
	SeverityInfo ConflictSeverity = "info"
)

type Conflict struct {
	Rule     string           `json:"rule"`
	Severity ConflictSeverity `json:"severity"`
	Message  string           `json:"message"`
}

const (
	RuleSaturdayRestricted = "saturday_restricted"
	RuleLabParity          = "lab_parity"
	RuleWeeklyLimit        = "weekly_limit"
	RuleConsecutiveSubject = "consecutive_subject"
	RuleFacultyClash       = "faculty_clash"
	RuleMaxHours           = "max_hours"
	RuleSlotOccupied       = "slot_occupied"
)

// HasBlocking reports any error-severity conflict.
func HasBlocking(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports any warning-severity conflict.
func HasWarnings(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// MergeConflicts appends extras, dropping entries whose message duplicates one
// already present. Used to fold best-effort remote results into local ones.
func MergeConflicts(local, extra []Conflict) []Conflict {
	seen := make(map[string]struct{}, len(local))
	for _, c := range local {
		seen[c.Message] = struct{}{}
	}
	out := local
	for _, c := range extra {
		if _, dup := seen[c.Message]; dup {
			continue
		}
		seen[c.Message] = struct{}{}
		out = append(out, c)
	}
	return out
}

/* =========================
   Proposals
   ========================= */

// Proposal is one speculative cell write: a subject drop (Subject set, Faculty
// optional) or a faculty drop onto an occupied cell (Subject nil).
type Proposal struct {
	SectionID uuid.UUID
	Day       Day
	Slot      Slot
	Subject   *SubjectInfo
	Faculty   *FacultyInfo
}

// slotSpan is the set of slots the proposal writes: one, or two for a lab.
func (p Proposal) slotSpan() []Slot {
	if p.Subject != nil && p.Subject.IsLab {
		return []Slot{p.Slot, p.Slot + 1}
	}
	return []Slot{p.Slot}
}

// facultySpan is the set of slots a faculty attach lands on. A bare faculty
// drop onto a lab cell writes both halves of the pair, so both must be
// checked.
func (p Proposal) facultySpan(grid *ScheduleGrid) []Slot {
	if p.Subject != nil {
		return p.slotSpan()
	}
	if cur := grid.At(p.Day, p.Slot); cur != nil && cur.IsLab {
		anchor := LabPairStart(p.Slot)
		return []Slot{anchor, anchor + 1}
	}
	return []Slot{p.Slot}
}

/* =========================
   Validator
   ========================= */

// Validate checks a proposal against the section grid and the committed
// cross-section index. Pure and synchronous; rules are reported in a fixed
// order. An empty result means the edit can be applied immediately.
func Validate(p Proposal, grid *ScheduleGrid, index *GlobalScheduleIndex) []Conflict {
	var conflicts []Conflict

	// 1. Saturday restriction
	if !SlotUsable(p.Day, p.Slot) {
		if p.Day == Saturday && p.Slot > SlotsForDay(Saturday) {
			conflicts = append(conflicts, Conflict{
				Rule:     RuleSaturdayRestricted,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Slot %d is not available on Saturday (only slots 1-4).", p.Slot),
			})
		} else {
			conflicts = append(conflicts, Conflict{
				Rule:     RuleSaturdayRestricted,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s slot %d is outside the weekly grid.", p.Day, p.Slot),
			})
		}
		return conflicts
	}

	// 2. Lab parity
	if p.Subject != nil && p.Subject.IsLab {
		if p.Slot%2 == 0 {
			conflicts = append(conflicts, Conflict{
				Rule:     RuleLabParity,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s is a lab: labs must start on an odd slot (1, 3 or 5), not %d.", p.Subject.Name, p.Slot),
			})
		} else if p.Slot+1 > SlotsForDay(p.Day) {
			conflicts = append(conflicts, Conflict{
				Rule:     RuleLabParity,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s needs two consecutive slots; the pair does not fit on %s starting at slot %d.", p.Subject.Name, p.Day, p.Slot),
			})
		}
	}

	if p.Subject != nil {
		conflicts = append(conflicts, validateSubjectRules(p, grid)...)
	}
	if p.Faculty != nil {
		conflicts = append(conflicts, validateFacultyRules(p, p.facultySpan(grid), index)...)
	}

	// 7. Occupied cells: informational, the operator is overwriting. A lab
	// proposal overwrites both slots of the pair.
	if p.Subject != nil {
		for _, s := range p.slotSpan() {
			if cur := grid.At(p.Day, s); cur != nil && cur.SubjectCode != p.Subject.Code {
				conflicts = append(conflicts, Conflict{
					Rule:     RuleSlotOccupied,
					Severity: SeverityInfo,
					Message:  fmt.Sprintf("%s slot %d already holds %s; dropping %s will overwrite it.", p.Day, s, cur.SubjectName, p.Subject.Name),
				})
			}
		}
	}

	return conflicts
}

// 3 + 4: weekly limit and consecutive same-subject slots.
func validateSubjectRules(p Proposal, grid *ScheduleGrid) []Conflict {
	var conflicts []Conflict
	sub := p.Subject

	// 3. Subject weekly-limit: occurrences including the cells about to be
	// written must not exceed the configured weekly hours. Cells already
	// holding this subject at the target positions are not double counted;
	// unassigned-but-present cells still count (the subject stays scheduled,
	// only the instructor is detached).
	delta := 0
	for _, s := range p.slotSpan() {
		cur := grid.At(p.Day, s)
		if cur == nil || cur.SubjectCode != sub.Code {
			delta++
		}
	}
	if occ := grid.CountSubject(sub.Code); sub.WeeklyHours > 0 && occ+delta > sub.WeeklyHours {
		conflicts = append(conflicts, Conflict{
			Rule:     RuleWeeklyLimit,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%s already occupies %d of %d weekly slots; adding %d more exceeds the weekly limit.", sub.Name, occ, sub.WeeklyHours, delta),
		})
	}

	// 4. Consecutive same-subject slots: discouraged, not forbidden. For labs
	// the neighbours outside the pair span are checked.
	prev := p.Slot - 1
	next := p.Slot + 1
	if sub.IsLab {
		next = p.Slot + 2
	}
	for _, s := range []Slot{prev, next} {
		if cur := grid.At(p.Day, s); cur != nil && cur.SubjectCode == sub.Code {
			conflicts = append(conflicts, Conflict{
				Rule:     RuleConsecutiveSubject,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s would sit in consecutive slots on %s, which is not recommended.", sub.Name, p.Day),
			})
			break
		}
	}

	return conflicts
}

// 5 + 6: cross-section double-booking and the max-hours cap. The span covers
// every slot the attach writes (both halves for lab pairs).
func validateFacultyRules(p Proposal, span []Slot, index *GlobalScheduleIndex) []Conflict {
	var conflicts []Conflict
	fac := p.Faculty

	// 5. Faculty double-booking in another section.
	for _, s := range span {
		if index.IsFacultyBusy(fac.ID, p.Day, s, p.SectionID) {
			conflicts = append(conflicts, Conflict{
				Rule:     RuleFacultyClash,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s is already teaching another class at %s slot %d (double-booking).", fac.Name, p.Day, s),
			})
			break
		}
	}

	// 6. Faculty max-hours: error at/over the cap, warning within 2 of it.
	maxHours := fac.MaxHours
	if maxHours <= 0 {
		maxHours = 40
	}
	newLoad := index.FacultyLoad(fac.ID) + len(span)
	switch {
	case newLoad > maxHours:
		conflicts = append(conflicts, Conflict{
			Rule:     RuleMaxHours,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%s has reached the maximum weekly hours (%d); this assignment exceeds the cap.", fac.Name, maxHours),
		})
	case newLoad > maxHours-2:
		conflicts = append(conflicts, Conflict{
			Rule:     RuleMaxHours,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%s is within 2 hours of the weekly cap (%d of %d after this assignment).", fac.Name, newLoad, maxHours),
		})
	}

	return conflicts
}
