package spatial

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Directory indexes a scene's emitters by tag so a caller can find "the
// footstep emitter near the player" without knowing its exact key.
type Directory struct {
	scene *Scene
}

// NewDirectory builds a directory over scene's live emitter set.
func NewDirectory(scene *Scene) *Directory {
	return &Directory{scene: scene}
}

type scoredEmitter struct {
	key   Key
	score float64
}

// Find returns emitter keys whose tag fuzzy-matches query, scored by
// substring match first and Levenshtein distance second, best match
// first.
func (d *Directory) Find(query string) []Key {
	queryLower := strings.ToLower(query)
	var scored []scoredEmitter

	d.scene.arena.Each(func(key Key, e **Emitter) {
		tag := strings.ToLower(string((*e).Tag))
		if tag == "" {
			return
		}
		score := 0.0
		if strings.Contains(tag, queryLower) {
			score += 10.0
		}
		distance := fuzzy.LevenshteinDistance(queryLower, tag)
		if distance <= len(queryLower)/2+1 {
			score += float64(len(queryLower) - distance)
		}
		if score > 0 {
			scored = append(scored, scoredEmitter{key: key, score: score})
		}
	})

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	result := make([]Key, 0, len(scored))
	for _, s := range scored {
		result = append(result, s.key)
	}
	return result
}

// FindNearest narrows Find's results to the single closest match to
// reference, or returns ok=false if nothing matched the tag at all.
func (d *Directory) FindNearest(query string, reference func(*Emitter) float64) (Key, bool) {
	candidates := d.Find(query)
	if len(candidates) == 0 {
		return Key{}, false
	}
	best := candidates[0]
	bestDist := -1.0
	for _, key := range candidates {
		e, ok := d.scene.Emitter(key)
		if !ok {
			continue
		}
		dist := reference(e)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = key
		}
	}
	return best, true
}
