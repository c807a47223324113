package app

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"decrypto/internal/domain"
)

// SecretWords is the default word bank. Words are concrete nouns that are
// easy to hint at in a few different ways.
var SecretWords = []string{
	// Places
	"museum", "space", "sea", "mountain", "river", "lake", "forest", "field",
	"city", "subway", "harbor", "castle", "desert", "island", "library", "airport",

	// Things
	"book", "computer", "phone", "watch", "glasses", "umbrella", "mirror", "candle",
	"anchor", "compass", "lantern", "hammer", "bridge", "tower", "key", "crown",

	// Nature
	"fire", "sun", "moon", "wind", "rain", "snow", "thunder", "volcano",
	"glacier", "eclipse", "tree", "flower", "shadow", "crystal", "meteor", "tide",

	// Animals
	"rabbit", "dragon", "wolf", "falcon", "octopus", "spider", "tiger", "whale",

	// Food & drinks
	"coffee", "tea", "pizza", "sushi", "bread", "cheese", "wine", "honey",

	// Sports & leisure
	"football", "tennis", "chess", "music", "cinema", "photo", "circus", "casino",

	// Vehicles & people
	"train", "plane", "taxi", "bicycle", "boat", "pirate", "robot", "ghost",
}

// WordPool deals distinct random words. It is safe for concurrent use.
type WordPool struct {
	words []string
	rng   *rand.Rand
	mu    sync.Mutex
}

// NewWordPool creates a pool from words, dropping blanks and duplicates.
// A nil rng uses a time seed.
func NewWordPool(words []string, rng *rand.Rand) *WordPool {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seen := make(map[string]bool, len(words))
	unique := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		key := strings.ToLower(w)
		if w == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, w)
	}

	return &WordPool{
		words: unique,
		rng:   rng,
	}
}

// Size returns the number of distinct words in the pool
func (p *WordPool) Size() int {
	return len(p.words)
}

// Draw returns n distinct words in random order
func (p *WordPool) Draw(n int) ([]string, error) {
	if n > len(p.words) {
		return nil, domain.ErrWordPoolTooSmall
	}

	p.mu.Lock()
	perm := p.rng.Perm(len(p.words))
	p.mu.Unlock()

	drawn := make([]string, n)
	for i := 0; i < n; i++ {
		drawn[i] = p.words[perm[i]]
	}
	return drawn, nil
}
