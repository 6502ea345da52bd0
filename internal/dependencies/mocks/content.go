package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mcoot/fourpics/internal/model"
)

// MockWordSource returns queued words, then ErrExhausted
type MockWordSource struct {
	mu      sync.Mutex
	results []wordResult
	calls   int

	// Fallback is returned once the queue is empty, if set
	Fallback string
}

type wordResult struct {
	word string
	err  error
}

// ErrExhausted is returned by the content mocks when nothing is queued
var ErrExhausted = fmt.Errorf("mock queue exhausted")

// NewMockWordSource creates a MockWordSource
func NewMockWordSource() *MockWordSource {
	return &MockWordSource{}
}

// QueueWords adds words to be returned in order
func (m *MockWordSource) QueueWords(words ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range words {
		m.results = append(m.results, wordResult{word: w})
	}
}

// QueueError adds a failure to the queue
func (m *MockWordSource) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, wordResult{err: err})
}

// Calls returns how many times RandomWord was called
func (m *MockWordSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockWordSource) RandomWord(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.results) == 0 {
		if m.Fallback != "" {
			return m.Fallback, nil
		}
		return "", ErrExhausted
	}
	next := m.results[0]
	m.results = m.results[1:]
	return next.word, next.err
}

// MockPhotoSource returns a configurable number of photos per query
type MockPhotoSource struct {
	mu sync.Mutex

	// Counts overrides how many photos a query returns, keyed by uppercase query
	Counts map[string]int
	// Errors fails the query, keyed by uppercase query
	Errors map[string]error

	queries []string
}

// NewMockPhotoSource creates a MockPhotoSource returning perPage photos for every query
func NewMockPhotoSource() *MockPhotoSource {
	return &MockPhotoSource{
		Counts: make(map[string]int),
		Errors: make(map[string]error),
	}
}

// SetCount makes query return n photos
func (m *MockPhotoSource) SetCount(query string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counts[strings.ToUpper(query)] = n
}

// SetError makes query fail with err
func (m *MockPhotoSource) SetError(query string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[strings.ToUpper(query)] = err
}

// Queries returns every query searched so far, as it was passed
func (m *MockPhotoSource) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

func (m *MockPhotoSource) SearchPhotos(ctx context.Context, query string, perPage int) ([]model.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	key := strings.ToUpper(query)
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	n := perPage
	if c, ok := m.Counts[key]; ok {
		n = min(c, perPage)
	}
	photos := make([]model.Photo, n)
	for i := range photos {
		photos[i] = model.Photo{
			ID:  int64(i + 1),
			URL: fmt.Sprintf("https://photos.test/%s/%d.jpg", strings.ToLower(key), i+1),
			Alt: strings.ToLower(key),
		}
	}
	return photos, nil
}
