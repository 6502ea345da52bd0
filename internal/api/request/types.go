package request

import "github.com/mcoot/fourpics/internal/model"

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MoveTileRequest records a tile's drag translation from its origin
type MoveTileRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a slot rectangle measured by the client, X/Y its top-left corner
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DropRequest releases a tile at a point. Slots carries the client-measured
// slot rects in slot order, null for a slot that could not be measured; when
// omitted the server-side layout is used.
type DropRequest struct {
	Tile  *int    `json:"tile"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Slots []*Rect `json:"slots,omitempty"`
}

// Geometry converts the measured slots for the placement engine
func (r DropRequest) Geometry() []*model.Rect {
	if len(r.Slots) == 0 {
		return nil
	}
	rects := make([]*model.Rect, len(r.Slots))
	for i, s := range r.Slots {
		if s != nil {
			rects[i] = &model.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
		}
	}
	return rects
}
