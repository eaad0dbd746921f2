package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazamuttaqien/meetsync/internal/model"
)

func TestSlotSelectionToggleAndCommit(t *testing.T) {
	sel := NewSlotSelection(30 * time.Minute)

	sel.Toggle(at(9, 0), ToggleAdd)
	sel.Toggle(at(9, 30), ToggleAdd)
	sel.Toggle(at(11, 0), ToggleAdd)
	sel.Toggle(at(9, 30), ToggleAdd) // re-adding is a no-op

	blocks := sel.Commit()
	require.Len(t, blocks, 2)
	assert.Equal(t, model.TimeBlock{StartTime: at(9, 0), EndTime: at(10, 0)}, blocks[0])
	assert.Equal(t, model.TimeBlock{StartTime: at(11, 0), EndTime: at(11, 30)}, blocks[1])

	// Removing the middle slot splits nothing here but shrinks the block.
	sel.Toggle(at(9, 30), ToggleRemove)
	blocks = sel.Commit()
	require.Len(t, blocks, 2)
	assert.Equal(t, model.TimeBlock{StartTime: at(9, 0), EndTime: at(9, 30)}, blocks[0])
}

func TestSlotSelectionRemoveAbsentIsNoop(t *testing.T) {
	sel := NewSlotSelection(30 * time.Minute)
	sel.Toggle(at(9, 0), ToggleRemove)
	assert.Empty(t, sel.Commit())
}

func TestSelectionFromBlocksRoundTrip(t *testing.T) {
	// Persisted blocks materialize into slots, and committing the untouched
	// selection reproduces the same minimal block list.
	stored := []model.TimeBlock{
		{StartTime: at(9, 0), EndTime: at(10, 30)},
		{StartTime: at(14, 0), EndTime: at(14, 30)},
	}

	sel := SelectionFromBlocks(stored, 30*time.Minute, at(0, 0), at(24, 0))
	assert.Len(t, sel.SlotIDs(), 4)
	assert.True(t, sel.Contains(at(9, 0)))
	assert.True(t, sel.Contains(at(10, 0)))
	assert.False(t, sel.Contains(at(10, 30)))

	assert.Equal(t, stored, sel.Commit())
}

func TestSelectionFromBlocksClampsToRange(t *testing.T) {
	stored := []model.TimeBlock{{StartTime: at(9, 0), EndTime: at(12, 0)}}

	sel := SelectionFromBlocks(stored, 30*time.Minute, at(10, 0), at(11, 0))
	assert.True(t, sel.Contains(at(10, 0)))
	assert.True(t, sel.Contains(at(10, 30)))
	assert.False(t, sel.Contains(at(9, 0)))
	assert.False(t, sel.Contains(at(11, 0)))
}
