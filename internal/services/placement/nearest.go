package placement

import (
	"context"

	"github.com/mcoot/fourpics/internal/model"
)

// Nearest finds the open slot whose centre is closest to drop. Filled slots and
// slots the measurer cannot report are skipped. On equal distances the lower
// index wins. No distance threshold is applied here.
func Nearest(ctx context.Context, drop model.Point, m Measurer, filled []bool) (slot int, dist float64, found bool, err error) {
	slot = model.Unassigned
	for i, isFilled := range filled {
		if isFilled {
			continue
		}
		rect, ok := m.Measure(ctx, i)
		if err := ctx.Err(); err != nil {
			return model.Unassigned, 0, false, err
		}
		if !ok {
			continue
		}
		d := model.Distance(drop, rect.Center())
		if !found || d < dist {
			slot, dist, found = i, d, true
		}
	}
	return slot, dist, found, nil
}
