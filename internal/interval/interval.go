package interval

import (
	"slices"
	"time"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ClampToRange intersects a block with [rangeStart, rangeEnd). The second
// return value is false when the block and range are disjoint.
func ClampToRange(block model.TimeBlock, rangeStart, rangeEnd time.Time) (model.TimeBlock, bool) {
	if !Overlaps(block.StartTime, block.EndTime, rangeStart, rangeEnd) {
		return model.TimeBlock{}, false
	}

	clamped := block
	if clamped.StartTime.Before(rangeStart) {
		clamped.StartTime = rangeStart
	}
	if clamped.EndTime.After(rangeEnd) {
		clamped.EndTime = rangeEnd
	}
	return clamped, true
}

// MergeAdjacentSlots coalesces discrete slot start-times into a minimal list
// of contiguous blocks: consecutive slots where slotEnd == nextSlotStart
// join the same block. Input order does not matter; duplicates collapse.
// Used to compress a UI-edited slot selection before persisting it.
func MergeAdjacentSlots(slotStarts []time.Time, slotDuration time.Duration) []model.TimeBlock {
	if len(slotStarts) == 0 || slotDuration <= 0 {
		return []model.TimeBlock{}
	}

	starts := make([]time.Time, len(slotStarts))
	copy(starts, slotStarts)
	slices.SortFunc(starts, func(a, b time.Time) int { return a.Compare(b) })

	blocks := make([]model.TimeBlock, 0, len(starts))
	current := model.TimeBlock{
		StartTime: starts[0],
		EndTime:   starts[0].Add(slotDuration),
	}

	for _, start := range starts[1:] {
		if start.Equal(current.StartTime) || start.Before(current.EndTime) {
			// Duplicate or overlapping slot, already covered.
			continue
		}
		if start.Equal(current.EndTime) {
			current.EndTime = start.Add(slotDuration)
			continue
		}
		blocks = append(blocks, current)
		current = model.TimeBlock{StartTime: start, EndTime: start.Add(slotDuration)}
	}

	return append(blocks, current)
}

// ExpandBlockToSlots enumerates every slot start inside
// block ∩ [rangeStart, rangeEnd), stepping by slotDuration on the grid
// anchored at rangeStart. A slot is included only when the whole
// [t, t+slotDuration) fits inside the clamped block. This is the inverse of
// MergeAdjacentSlots for any grid-aligned selection.
func ExpandBlockToSlots(block model.TimeBlock, slotDuration time.Duration, rangeStart, rangeEnd time.Time) []time.Time {
	slots := []time.Time{}
	if slotDuration <= 0 {
		return slots
	}

	clamped, ok := ClampToRange(block, rangeStart, rangeEnd)
	if !ok {
		return slots
	}

	// First grid point at or after the clamped start.
	offset := clamped.StartTime.Sub(rangeStart)
	steps := offset / slotDuration
	if offset%slotDuration != 0 {
		steps++
	}

	for t := rangeStart.Add(steps * slotDuration); !t.Add(slotDuration).After(clamped.EndTime); t = t.Add(slotDuration) {
		slots = append(slots, t)
	}
	return slots
}

// NormalizeBlocks drops malformed blocks (end <= start) and merges any
// overlapping or touching blocks into a minimal sorted list. Applied to
// client-supplied block lists before persisting ("normalize or drop").
func NormalizeBlocks(blocks []model.TimeBlock) []model.TimeBlock {
	valid := make([]model.TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Valid() {
			valid = append(valid, b)
		}
	}
	if len(valid) == 0 {
		return []model.TimeBlock{}
	}

	slices.SortFunc(valid, func(a, b model.TimeBlock) int { return a.StartTime.Compare(b.StartTime) })

	merged := []model.TimeBlock{valid[0]}
	for _, b := range valid[1:] {
		last := &merged[len(merged)-1]
		if !b.StartTime.After(last.EndTime) {
			if b.EndTime.After(last.EndTime) {
				last.EndTime = b.EndTime
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}
