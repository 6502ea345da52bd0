// Package letters builds the scrambled tile pool a round is played with.
package letters

import (
	"fmt"

	"github.com/mcoot/fourpics/internal/dependencies/random"
)

const (
	// Alphabet is the set filler letters are drawn from
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// PoolSize is the number of tiles offered every round
	PoolSize = 12

	// MaxWordLength is the longest word that fits the pool with room to spare
	MaxWordLength = 8
)

// RandomLetters returns n letters drawn uniformly and independently from Alphabet
func RandomLetters(rnd random.Random, n int) []rune {
	if n <= 0 {
		return []rune{}
	}
	return []rune(rnd.String(n, Alphabet))
}

// Shuffle returns a uniformly random permutation of items using Fisher-Yates.
// The input slice is left untouched.
func Shuffle[T any](rnd random.Random, items []T) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// BuildTiles returns the word's letters plus PoolSize-len(word) random filler
// letters, shuffled
func BuildTiles(rnd random.Random, word string) ([]rune, error) {
	letters := []rune(word)
	if len(letters) == 0 {
		return nil, fmt.Errorf("empty word")
	}
	if len(letters) > MaxWordLength {
		return nil, fmt.Errorf("word %q is longer than %d letters", word, MaxWordLength)
	}

	pool := append(letters, RandomLetters(rnd, PoolSize-len(letters))...)
	return Shuffle(rnd, pool), nil
}
