package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// CommitFailure: the authoritative store rejected or was unreachable. The
// grid and the section's overlay entries remain intact so the commit can be
// retried.
type CommitFailure struct {
	SectionID uuid.UUID
	Err       error
}

func (f *CommitFailure) Error() string {
	return fmt.Sprintf("commit failed for section %s: %v", f.SectionID, f.Err)
}

func (f *CommitFailure) Unwrap() error { return f.Err }

// CommitCoordinator flushes an edited grid (overlay effects included) to the
// authoritative store as the full replacement set of that section's
// assignments, then clears the section's overlay entries and refreshes the
// cross-section index.
type CommitCoordinator struct {
	Store SlotStore
	Log   PendingChangeLog
	Index *GlobalScheduleIndex
}

func NewCommitCoordinator(store SlotStore, logBk PendingChangeLog, index *GlobalScheduleIndex) *CommitCoordinator {
	return &CommitCoordinator{Store: store, Log: logBk, Index: index}
}

func (cc *CommitCoordinator) Commit(ctx context.Context, grid *ScheduleGrid) error {
	records := grid.Serialize()
	if err := cc.Store.ReplaceSectionSlots(ctx, grid.SectionID, records); err != nil {
		return &CommitFailure{SectionID: grid.SectionID, Err: err}
	}

	if err := cc.Log.Clear(ctx, grid.SectionID); err != nil {
		// the store write landed; report the leftover overlay instead of
		// pretending the commit failed
		log.Printf("[Commit] section %s committed but overlay clear failed: %v", grid.SectionID, err)
		return fmt.Errorf("committed but failed to clear pending changes: %w", err)
	}

	if err := cc.RefreshIndex(ctx); err != nil {
		log.Printf("[Commit] index refresh after commit failed: %v", err)
	}
	return nil
}

// RefreshIndex rebuilds the global index from the authoritative store.
func (cc *CommitCoordinator) RefreshIndex(ctx context.Context) error {
	all, err := cc.Store.FetchAllSectionSlots(ctx)
	if err != nil {
		return err
	}
	cc.Index.Rebuild(all)
	return nil
}

type SectionCommitResult struct {
	SectionID uuid.UUID `json:"section_id"`
	Committed bool      `json:"committed"`
	Error     string    `json:"error,omitempty"`
}

// CommitMany commits each grid independently: one section's failure never
// rolls back another's success. Results are reported per section.
func (cc *CommitCoordinator) CommitMany(ctx context.Context, grids []*ScheduleGrid) []SectionCommitResult {
	results := make([]SectionCommitResult, 0, len(grids))
	for _, grid := range grids {
		res := SectionCommitResult{SectionID: grid.SectionID, Committed: true}
		if err := cc.Commit(ctx, grid); err != nil {
			res.Committed = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}
