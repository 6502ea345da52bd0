package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fourpics/internal/dependencies/mocks"
	"github.com/mcoot/fourpics/internal/model"
	"github.com/mcoot/fourpics/internal/storage/memory"
)

type DictionarySuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	dict    *Dictionary
	ctx     context.Context
}

func TestDictionarySuite(t *testing.T) {
	suite.Run(t, new(DictionarySuite))
}

func (s *DictionarySuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.dict = NewDictionary(s.storage, s.random, DefaultDictionaryConfig())
	s.ctx = context.Background()
}

func (s *DictionarySuite) TestIsNotLoadedByDefault() {
	s.False(s.dict.IsLoaded())
	s.Equal(0, s.dict.WordCount())

	_, err := s.dict.RandomWord(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *DictionarySuite) TestLoadWordsNormalisesAndFilters() {
	s.dict.LoadWords([]string{"apple", " Tiger ", "elephants", "ice-cream", "don't", "APPLE", ""})

	s.Equal([]string{"APPLE", "TIGER"}, s.dict.Words())
	s.True(s.dict.IsLoaded())
}

func (s *DictionarySuite) TestRandomWordUsesRandom() {
	s.dict.LoadWords([]string{"cat", "dog", "owl"})
	s.random.QueueIntn(2, 0)

	first, err := s.dict.RandomWord(s.ctx)
	s.Require().NoError(err)
	second, err := s.dict.RandomWord(s.ctx)
	s.Require().NoError(err)

	s.Equal("OWL", first)
	s.Equal("CAT", second)
}

func (s *DictionarySuite) TestLoadFromFileSavesToStorage() {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(path, []byte("# comment\ncat\n\ndog\n"), 0o644))

	s.Require().NoError(s.dict.LoadFromFile(s.ctx, path))
	s.Equal(2, s.dict.WordCount())

	stored, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"CAT", "DOG"}, stored)
}

func (s *DictionarySuite) TestLoadFromFileMissing() {
	s.Error(s.dict.LoadFromFile(s.ctx, "/nonexistent/words.txt"))
}

func (s *DictionarySuite) TestLoadFromStorage() {
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"moon", "star"}))

	s.Require().NoError(s.dict.LoadFromStorage(s.ctx))
	s.Equal(2, s.dict.WordCount())
}

func (s *DictionarySuite) TestLoadFromEmptyStorage() {
	s.ErrorIs(s.dict.LoadFromStorage(s.ctx), model.ErrDictionaryNotLoaded)
}

func (s *DictionarySuite) TestLoadBuiltin() {
	s.Require().NoError(s.dict.LoadBuiltin(s.ctx))

	s.Greater(s.dict.WordCount(), 100)
	for _, w := range s.dict.Words() {
		s.LessOrEqual(len(w), 8)
	}
}
