package placement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/fourpics/internal/model"
)

func rect(x, y float64) *model.Rect {
	return &model.Rect{X: x, Y: y, Width: 40, Height: 40}
}

func TestNearestPicksClosestOpenSlot(t *testing.T) {
	geometry := SlotGeometry{rect(0, 0), rect(50, 0), rect(100, 0)}

	slot, dist, found, err := Nearest(context.Background(), model.Point{X: 72, Y: 20}, geometry, []bool{false, false, false})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, slot)
	assert.InDelta(t, 2.0, dist, 1e-9)
}

func TestNearestSkipsFilledSlots(t *testing.T) {
	geometry := SlotGeometry{rect(0, 0), rect(50, 0), rect(100, 0)}

	slot, _, found, err := Nearest(context.Background(), model.Point{X: 70, Y: 20}, geometry, []bool{false, true, false})
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotEqual(t, 1, slot)
}

func TestNearestSkipsUnmeasuredSlots(t *testing.T) {
	geometry := SlotGeometry{nil, rect(50, 0), nil}

	slot, _, found, err := Nearest(context.Background(), model.Point{X: 20, Y: 20}, geometry, []bool{false, false, false})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, slot)
}

func TestNearestTieGoesToLowerIndex(t *testing.T) {
	// Drop exactly between slot 0 and slot 1 centres
	geometry := SlotGeometry{rect(0, 0), rect(50, 0)}

	slot, dist, found, err := Nearest(context.Background(), model.Point{X: 45, Y: 20}, geometry, []bool{false, false})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, slot)
	assert.InDelta(t, 25.0, dist, 1e-9)
}

func TestNearestNoCandidates(t *testing.T) {
	geometry := SlotGeometry{rect(0, 0), nil}

	slot, _, found, err := Nearest(context.Background(), model.Point{}, geometry, []bool{true, false})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, model.Unassigned, slot)
}

func TestNearestAppliesNoThreshold(t *testing.T) {
	geometry := SlotGeometry{rect(0, 0)}

	slot, dist, found, err := Nearest(context.Background(), model.Point{X: 5000, Y: 5000}, geometry, []bool{false})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, slot)
	assert.Greater(t, dist, 100.0)
}

func TestNearestHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	m := MeasureFunc(func(ctx context.Context, slot int) (model.Rect, bool) {
		calls++
		cancel()
		return model.Rect{}, false
	})

	_, _, found, err := Nearest(ctx, model.Point{}, m, []bool{false, false, false})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, found)
	assert.Equal(t, 1, calls)
}

func TestCenteredLayout(t *testing.T) {
	l := CenteredLayout(3, 330, 200)

	// Row is 3*40 + 2*10 = 140 wide, so it starts at 95
	assert.Equal(t, model.Rect{X: 95, Y: 200, Width: 40, Height: 40}, l.Rect(0))
	assert.Equal(t, model.Point{X: 165, Y: 220}, l.Center(1))

	_, ok := l.Measure(context.Background(), 3)
	assert.False(t, ok)
	_, ok = l.Measure(context.Background(), -1)
	assert.False(t, ok)
}
