package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5, Distance(Position{0, 0}, Position{3, 4}), 1e-9)
	assert.Zero(t, Distance(Position{1, 2}, Position{1, 2}))
}

func TestScatterBoxesStaysInBounds(t *testing.T) {
	f := NewField(25, 42)
	f.ScatterBoxes(80)

	assert.Equal(t, 80, f.BoxCount())
	for _, id := range boxIDs(f) {
		p := f.Box(id).Position
		assert.LessOrEqual(t, math.Abs(p.X), 25.0)
		assert.LessOrEqual(t, math.Abs(p.Z), 25.0)
	}
}

func TestScatterBoxesDeterministic(t *testing.T) {
	a := NewField(25, 7)
	b := NewField(25, 7)
	a.ScatterBoxes(20)
	b.ScatterBoxes(20)

	for _, id := range boxIDs(a) {
		other := b.Box(id)
		require.NotNil(t, other)
		assert.Equal(t, a.Box(id).Position, other.Position)
	}
}

func TestRemoveBoxContested(t *testing.T) {
	f := NewField(10, 1)
	box := f.AddBox(Position{1, 1})

	assert.True(t, f.RemoveBox(box.ID))
	assert.False(t, f.RemoveBox(box.ID), "second pickup loses the race")
	assert.Nil(t, f.Box(box.ID))
	assert.Zero(t, f.BoxCount())
}

func TestNearestBox(t *testing.T) {
	f := NewField(10, 1)

	_, ok := f.NearestBox(Position{0, 0})
	assert.False(t, ok, "empty field has no nearest box")

	far := f.AddBox(Position{8, 8})
	near := f.AddBox(Position{1, 1})

	got, ok := f.NearestBox(Position{0, 0})
	require.True(t, ok)
	assert.Equal(t, near.ID, got.ID)

	got, ok = f.NearestBox(Position{9, 9})
	require.True(t, ok)
	assert.Equal(t, far.ID, got.ID)
}

func boxIDs(f *Field) []BoxID {
	ids := make([]BoxID, 0, f.BoxCount())
	for id := range f.boxes {
		ids = append(ids, id)
	}
	return ids
}
