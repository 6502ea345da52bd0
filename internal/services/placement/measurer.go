package placement

import (
	"context"

	"github.com/mcoot/fourpics/internal/model"
)

// Reference slot geometry of the play screen
const (
	SlotWidth  = 40.0
	SlotHeight = 40.0
	SlotGap    = 10.0
)

// Measurer reports the on-screen rectangle of an answer slot. ok is false when
// the slot has not been laid out yet.
type Measurer interface {
	Measure(ctx context.Context, slot int) (rect model.Rect, ok bool)
}

// MeasureFunc adapts a function to a Measurer
type MeasureFunc func(ctx context.Context, slot int) (model.Rect, bool)

func (f MeasureFunc) Measure(ctx context.Context, slot int) (model.Rect, bool) {
	return f(ctx, slot)
}

// SlotGeometry is a set of client-measured rectangles indexed by slot.
// A nil entry is a slot the client has not measured.
type SlotGeometry []*model.Rect

func (g SlotGeometry) Measure(_ context.Context, slot int) (model.Rect, bool) {
	if slot < 0 || slot >= len(g) || g[slot] == nil {
		return model.Rect{}, false
	}
	return *g[slot], true
}

// Layout is a single horizontal row of equally sized slots
type Layout struct {
	Origin model.Point // Top-left of slot 0
	Width  float64
	Height float64
	Gap    float64
	Count  int
}

// CenteredLayout lays count reference-sized slots out in a row centred
// horizontally within a container of the given width, top edge at y
func CenteredLayout(count int, containerWidth, y float64) Layout {
	row := float64(count)*SlotWidth + float64(max(count-1, 0))*SlotGap
	return Layout{
		Origin: model.Point{X: (containerWidth - row) / 2, Y: y},
		Width:  SlotWidth,
		Height: SlotHeight,
		Gap:    SlotGap,
		Count:  count,
	}
}

func (l Layout) Measure(_ context.Context, slot int) (model.Rect, bool) {
	if slot < 0 || slot >= l.Count {
		return model.Rect{}, false
	}
	return l.Rect(slot), true
}

// Rect returns the rectangle of a slot without bounds checking
func (l Layout) Rect(slot int) model.Rect {
	return model.Rect{
		X:      l.Origin.X + float64(slot)*(l.Width+l.Gap),
		Y:      l.Origin.Y,
		Width:  l.Width,
		Height: l.Height,
	}
}

// Center returns the centre of a slot, the ideal drop point for it
func (l Layout) Center(slot int) model.Point {
	return l.Rect(slot).Center()
}
