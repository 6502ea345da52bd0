package model

import "time"

// RoundID uniquely identifies a round
type RoundID string

// Photo is one of the four hint images shown for a round
type Photo struct {
	ID           int64
	URL          string
	Alt          string
	Photographer string
}

// Round is a single word to guess together with its tile pool and photos.
// It is replaced wholesale when the next round begins.
type Round struct {
	ID        RoundID
	Word      string  // Uppercase, 1-8 letters
	Tiles     []rune  // Word letters plus filler, shuffled
	Photos    []Photo // Exactly four
	Attempts  int     // Acquisition attempts it took to find this round
	CreatedAt time.Time
}

// WordLength returns the number of answer slots the round needs
func (r *Round) WordLength() int {
	return len([]rune(r.Word))
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	c := *r
	c.Tiles = append([]rune(nil), r.Tiles...)
	c.Photos = append([]Photo(nil), r.Photos...)
	return &c
}
