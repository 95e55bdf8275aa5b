package deck_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/deck"
	"github.com/999aryaDharma/HackStack/internal/store/storetest"
)

func TestBundled_CoversEveryLanguage(t *testing.T) {
	cards, err := deck.Bundled()
	require.NoError(t, err)

	easy := make(map[string]int)
	for _, c := range cards {
		assert.Equal(t, card.SourceBundled, c.Source, c.ID)
		if c.Difficulty == card.DifficultyEasy {
			easy[c.Language]++
		}
	}
	for _, lang := range card.SupportedLanguages {
		assert.NotZero(t, easy[lang], "no easy bundled cards for %s", lang)
	}
}

func TestLoadBundle_RejectsInvalidCard(t *testing.T) {
	fsys := fstest.MapFS{
		"bundle/bad.yaml": {Data: []byte(`
cards:
  - id: bad-1
    type: essay
    lang: Go
    difficulty: easy
    question: q
    answer: a
    explanation: e
`)},
	}

	_, err := deck.LoadBundle(fsys, card.NewValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad-1")
}

func TestLoadBundle_RejectsDuplicateIDs(t *testing.T) {
	entry := `
  - id: dup
    type: quiz
    lang: Go
    difficulty: easy
    question: q
    answer: a
    explanation: e
`
	fsys := fstest.MapFS{
		"bundle/a.yaml": {Data: []byte("cards:" + entry)},
		"bundle/b.yaml": {Data: []byte("cards:" + entry)},
	}

	_, err := deck.LoadBundle(fsys, card.NewValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadBundle_RequiresID(t *testing.T) {
	fsys := fstest.MapFS{
		"bundle/a.yaml": {Data: []byte(`
cards:
  - type: quiz
    lang: Go
    difficulty: easy
    question: q
    answer: a
    explanation: e
`)},
	}

	_, err := deck.LoadBundle(fsys, card.NewValidator())
	assert.ErrorContains(t, err, "no id")
}

func TestSeedBundled_Idempotent(t *testing.T) {
	repo := storetest.Open(t).CardRepo()
	ctx := context.Background()
	cards, err := deck.Bundled()
	require.NoError(t, err)

	added, err := deck.SeedBundled(ctx, repo, cards)
	require.NoError(t, err)
	assert.Equal(t, len(cards), added)

	added, err = deck.SeedBundled(ctx, repo, cards)
	require.NoError(t, err)
	assert.Zero(t, added)

	rec, err := repo.Get(ctx, cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, card.SourceBundled, rec.Source)
}
