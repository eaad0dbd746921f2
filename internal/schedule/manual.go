package schedule

import (
	"time"

	"github.com/fazamuttaqien/meetsync/internal/interval"
	"github.com/fazamuttaqien/meetsync/internal/model"
)

// ToggleMode says whether a slot is being selected or deselected.
type ToggleMode string

const (
	ToggleAdd    ToggleMode = "add"
	ToggleRemove ToggleMode = "remove"
)

// SlotSelection is the in-memory working set of the manual block editor:
// the slot starts a participant has painted as blocked, keyed by RFC3339
// start time. Removing a block is expressed as toggling its slots out of
// the selection before commit; there is no partial-block delete.
type SlotSelection struct {
	slotDuration time.Duration
	slots        map[string]time.Time
}

func NewSlotSelection(slotDuration time.Duration) *SlotSelection {
	if slotDuration <= 0 {
		slotDuration = DefaultGranularity
	}
	return &SlotSelection{
		slotDuration: slotDuration,
		slots:        make(map[string]time.Time),
	}
}

// SelectionFromBlocks materializes persisted blocks into the slot set a UI
// can edit, restricted to [rangeStart, rangeEnd).
func SelectionFromBlocks(blocks []model.TimeBlock, slotDuration time.Duration, rangeStart, rangeEnd time.Time) *SlotSelection {
	sel := NewSlotSelection(slotDuration)
	for _, block := range blocks {
		for _, start := range interval.ExpandBlockToSlots(block, sel.slotDuration, rangeStart, rangeEnd) {
			sel.slots[slotID(start)] = start
		}
	}
	return sel
}

// Toggle adds or removes a single slot. Toggling an absent slot out, or a
// present slot in, is a no-op.
func (s *SlotSelection) Toggle(slotStart time.Time, mode ToggleMode) {
	switch mode {
	case ToggleAdd:
		s.slots[slotID(slotStart)] = slotStart
	case ToggleRemove:
		delete(s.slots, slotID(slotStart))
	}
}

// Contains reports whether the slot is currently selected.
func (s *SlotSelection) Contains(slotStart time.Time) bool {
	_, ok := s.slots[slotID(slotStart)]
	return ok
}

// SlotIDs returns the selected slot starts as RFC3339 strings, in no
// particular order.
func (s *SlotSelection) SlotIDs() []string {
	ids := make([]string, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	return ids
}

// Commit compresses the selection back into a minimal block list, ready to
// fully replace the participant's stored manual blocks.
func (s *SlotSelection) Commit() []model.TimeBlock {
	starts := make([]time.Time, 0, len(s.slots))
	for _, start := range s.slots {
		starts = append(starts, start)
	}
	return interval.MergeAdjacentSlots(starts, s.slotDuration)
}

func slotID(start time.Time) string {
	return start.UTC().Format(time.RFC3339)
}
