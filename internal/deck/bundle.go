package deck

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/999aryaDharma/HackStack/internal/card"
	"github.com/999aryaDharma/HackStack/internal/clock"
)

//go:embed bundle/*.yaml
var bundleFS embed.FS

type bundleFile struct {
	Cards []card.Candidate `yaml:"cards"`
}

// bundleEpoch is the creation time stamped on bundled cards. A fixed value
// keeps bundled records identical across loads.
var bundleEpoch = clock.NewFixed(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

var loadBundled = sync.OnceValues(func() ([]card.Card, error) {
	return LoadBundle(bundleFS, card.NewValidator(card.WithClock(bundleEpoch)))
})

// Bundled returns the deck embedded in the binary. Callers must not
// modify the returned slice.
func Bundled() ([]card.Card, error) {
	return loadBundled()
}

// LoadBundle reads every *.yaml file under bundle/ in fsys. Unlike
// generator output, an invalid bundled card is an error.
func LoadBundle(fsys fs.FS, val Validator) ([]card.Card, error) {
	paths, err := fs.Glob(fsys, "bundle/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list bundle files: %w", err)
	}

	var cards []card.Card
	seen := make(map[string]string)
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var f bundleFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for i, cand := range f.Cards {
			if cand.ID == "" {
				return nil, fmt.Errorf("%s: card %d has no id", path, i)
			}
			if prev, dup := seen[cand.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate card id %q (first in %s)", path, cand.ID, prev)
			}
			seen[cand.ID] = path

			cand.Source = string(card.SourceBundled)
			c, err := val.Validate(cand)
			if err != nil {
				return nil, fmt.Errorf("%s: card %s: %w", path, cand.ID, err)
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// Seeder is the store capability SeedBundled needs.
type Seeder interface {
	InsertIfAbsent(ctx context.Context, rec card.Record) (bool, error)
}

// SeedBundled stores any bundled cards the store does not have yet and
// returns how many were added.
func SeedBundled(ctx context.Context, repo Seeder, cards []card.Card) (int, error) {
	added := 0
	for _, c := range cards {
		ok, err := repo.InsertIfAbsent(ctx, card.NewRecord(c))
		if err != nil {
			return added, fmt.Errorf("seed bundled card %s: %w", c.ID, err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}
