package content

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/fourpics/internal/dependencies/random"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/storage"
)

//go:embed words.txt
var builtinWords string

// DictionaryConfig controls which words a dictionary keeps
type DictionaryConfig struct {
	MaxLength int // Longer words are dropped on load, 0 keeps all
}

// DefaultDictionaryConfig keeps words that fit the tile pool
func DefaultDictionaryConfig() DictionaryConfig {
	return DictionaryConfig{MaxLength: 8}
}

// Dictionary is an offline WordSource picking uniformly from a word list
type Dictionary struct {
	storage storage.Storage
	random  random.Random
	config  DictionaryConfig

	mu    sync.RWMutex
	words []string
}

// NewDictionary creates an empty dictionary
func NewDictionary(storage storage.Storage, rnd random.Random, config DictionaryConfig) *Dictionary {
	return &Dictionary{
		storage: storage,
		random:  rnd,
		config:  config,
	}
}

// LoadFromStorage loads dictionary words from storage
func (d *Dictionary) LoadFromStorage(ctx context.Context) error {
	words, err := d.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	d.loadWords(words)
	return nil
}

// LoadFromFile loads words from a file, one per line, and saves them to
// storage for the next start
func (d *Dictionary) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return d.loadAndSave(ctx, file)
}

// LoadBuiltin loads the word list compiled into the binary
func (d *Dictionary) LoadBuiltin(ctx context.Context) error {
	return d.loadAndSave(ctx, strings.NewReader(builtinWords))
}

func (d *Dictionary) loadAndSave(ctx context.Context, r io.Reader) error {
	words, err := readWords(r)
	if err != nil {
		return err
	}
	d.loadWords(words)

	if err := d.storage.SaveDictionaryWords(ctx, d.Words()); err != nil {
		return fmt.Errorf("saving dictionary: %w", err)
	}
	return nil
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" && !strings.HasPrefix(word, "#") {
			words = append(words, word)
		}
	}
	return words, scanner.Err()
}

// LoadWords directly loads a slice of words (useful for testing)
func (d *Dictionary) LoadWords(words []string) {
	d.loadWords(words)
}

func (d *Dictionary) loadWords(words []string) {
	kept := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		upper := strings.ToUpper(strings.TrimSpace(w))
		return upper, d.playable(upper)
	}))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.words = kept
}

func (d *Dictionary) playable(word string) bool {
	if word == "" || (d.config.MaxLength > 0 && len(word) > d.config.MaxLength) {
		return false
	}
	for _, r := range word {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// RandomWord returns a uniformly chosen word
func (d *Dictionary) RandomWord(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.words) == 0 {
		return "", model.ErrDictionaryNotLoaded
	}
	return d.words[d.random.Intn(len(d.words))], nil
}

// IsLoaded returns whether any words have been loaded
func (d *Dictionary) IsLoaded() bool {
	return d.WordCount() > 0
}

// WordCount returns the number of words in the dictionary
func (d *Dictionary) WordCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words)
}

// Words returns a copy of the loaded words
func (d *Dictionary) Words() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.words...)
}

var _ WordSource = (*Dictionary)(nil)
