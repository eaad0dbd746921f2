package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

var base = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
		{"touching endpoints do not overlap", at(0, 0), at(10, 0), at(10, 0), at(20, 0), false},
		{"partial overlap", at(8, 0), at(9, 30), at(9, 0), at(10, 0), true},
		{"containment", at(8, 0), at(12, 0), at(9, 0), at(10, 0), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Symmetry: swapping the two intervals never changes the answer.
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestClampToRange(t *testing.T) {
	block := model.TimeBlock{StartTime: at(8, 0), EndTime: at(12, 0)}

	clamped, ok := ClampToRange(block, at(9, 0), at(10, 0))
	require.True(t, ok)
	assert.Equal(t, at(9, 0), clamped.StartTime)
	assert.Equal(t, at(10, 0), clamped.EndTime)

	clamped, ok = ClampToRange(block, at(7, 0), at(9, 0))
	require.True(t, ok)
	assert.Equal(t, at(8, 0), clamped.StartTime)
	assert.Equal(t, at(9, 0), clamped.EndTime)

	// Fully inside the range: unchanged.
	clamped, ok = ClampToRange(block, at(0, 0), at(23, 0))
	require.True(t, ok)
	assert.Equal(t, block, clamped)

	// Disjoint, including the touching-endpoint case.
	_, ok = ClampToRange(block, at(12, 0), at(13, 0))
	assert.False(t, ok)
	_, ok = ClampToRange(block, at(13, 0), at(14, 0))
	assert.False(t, ok)
}

func TestMergeAdjacentSlots(t *testing.T) {
	slot := 30 * time.Minute

	t.Run("coalesces consecutive slots", func(t *testing.T) {
		blocks := MergeAdjacentSlots([]time.Time{at(9, 0), at(9, 30), at(10, 0), at(11, 0)}, slot)
		require.Len(t, blocks, 2)
		assert.Equal(t, model.TimeBlock{StartTime: at(9, 0), EndTime: at(10, 30)}, blocks[0])
		assert.Equal(t, model.TimeBlock{StartTime: at(11, 0), EndTime: at(11, 30)}, blocks[1])
	})

	t.Run("unsorted input with duplicates", func(t *testing.T) {
		blocks := MergeAdjacentSlots([]time.Time{at(10, 0), at(9, 0), at(9, 30), at(9, 30)}, slot)
		require.Len(t, blocks, 1)
		assert.Equal(t, model.TimeBlock{StartTime: at(9, 0), EndTime: at(10, 30)}, blocks[0])
	})

	t.Run("empty selection", func(t *testing.T) {
		assert.Empty(t, MergeAdjacentSlots(nil, slot))
	})
}

func TestExpandBlockToSlots(t *testing.T) {
	slot := 30 * time.Minute
	rangeStart, rangeEnd := at(0, 0), at(24, 0)

	t.Run("enumerates full slots inside the block", func(t *testing.T) {
		block := model.TimeBlock{StartTime: at(9, 0), EndTime: at(10, 30)}
		slots := ExpandBlockToSlots(block, slot, rangeStart, rangeEnd)
		assert.Equal(t, []time.Time{at(9, 0), at(9, 30), at(10, 0)}, slots)
	})

	t.Run("partial trailing slot is excluded", func(t *testing.T) {
		block := model.TimeBlock{StartTime: at(9, 0), EndTime: at(9, 45)}
		slots := ExpandBlockToSlots(block, slot, rangeStart, rangeEnd)
		assert.Equal(t, []time.Time{at(9, 0)}, slots)
	})

	t.Run("clamped to range", func(t *testing.T) {
		block := model.TimeBlock{StartTime: at(9, 0), EndTime: at(11, 0)}
		slots := ExpandBlockToSlots(block, slot, at(10, 0), at(24, 0))
		assert.Equal(t, []time.Time{at(10, 0), at(10, 30)}, slots)
	})

	t.Run("disjoint block yields nothing", func(t *testing.T) {
		block := model.TimeBlock{StartTime: at(9, 0), EndTime: at(10, 0)}
		assert.Empty(t, ExpandBlockToSlots(block, slot, at(12, 0), at(14, 0)))
	})
}

// expand(merge(S)) == S for any grid-aligned selection.
func TestSlotBlockRoundTrip(t *testing.T) {
	slot := 30 * time.Minute
	rangeStart, rangeEnd := at(0, 0), at(24, 0)

	selections := [][]time.Time{
		{at(9, 0)},
		{at(9, 0), at(9, 30), at(10, 0)},
		{at(9, 0), at(10, 30), at(14, 0), at(14, 30), at(23, 30)},
		{at(0, 0), at(12, 0), at(12, 30)},
	}

	for _, selection := range selections {
		blocks := MergeAdjacentSlots(selection, slot)

		got := []time.Time{}
		for _, b := range blocks {
			got = append(got, ExpandBlockToSlots(b, slot, rangeStart, rangeEnd)...)
		}
		assert.Equal(t, selection, got)
	}
}

func TestNormalizeBlocks(t *testing.T) {
	t.Run("drops malformed and merges overlap", func(t *testing.T) {
		blocks := NormalizeBlocks([]model.TimeBlock{
			{StartTime: at(10, 0), EndTime: at(9, 0)}, // end <= start: dropped
			{StartTime: at(9, 0), EndTime: at(10, 0)},
			{StartTime: at(9, 30), EndTime: at(11, 0)},
			{StartTime: at(12, 0), EndTime: at(13, 0)},
		})
		require.Len(t, blocks, 2)
		assert.Equal(t, model.TimeBlock{StartTime: at(9, 0), EndTime: at(11, 0)}, blocks[0])
		assert.Equal(t, model.TimeBlock{StartTime: at(12, 0), EndTime: at(13, 0)}, blocks[1])
	})

	t.Run("touching blocks merge", func(t *testing.T) {
		blocks := NormalizeBlocks([]model.TimeBlock{
			{StartTime: at(9, 0), EndTime: at(10, 0)},
			{StartTime: at(10, 0), EndTime: at(11, 0)},
		})
		require.Len(t, blocks, 1)
		assert.Equal(t, model.TimeBlock{StartTime: at(9, 0), EndTime: at(11, 0)}, blocks[0])
	})
}
