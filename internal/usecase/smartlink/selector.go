// Package smartlink picks which ad endpoint to show next: weighted random
// over the active pool, with anti-repeat exclusions that yield to
// availability when the pool is small.
package smartlink

import (
	"math/rand"

	"github.com/lumora/lumora-unlock-service/internal/domain"
)

// Selector draws from a weighted pool. The random source is injectable so
// selection is exactly reproducible under a seeded source.
type Selector struct {
	rand *rand.Rand
}

func NewSelector(src rand.Source) *Selector {
	return &Selector{rand: rand.New(src)}
}

// Select returns one active link, preferring candidates outside excludeIDs.
// When the exclusions empty the candidate set, the full active pool is used
// instead: showing a repeat beats showing nothing. Nil means no active link
// exists and the caller should fall back to the operator default URL.
func (s *Selector) Select(pool []*domain.Smartlink, excludeIDs []string) *domain.Smartlink {
	active := make([]*domain.Smartlink, 0, len(pool))
	for _, link := range pool {
		if link.IsActive {
			active = append(active, link)
		}
	}
	if len(active) == 0 {
		return nil
	}

	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	candidates := make([]*domain.Smartlink, 0, len(active))
	for _, link := range active {
		if _, ok := excluded[link.ID]; !ok {
			candidates = append(candidates, link)
		}
	}
	if len(candidates) == 0 {
		candidates = active
	}

	return candidates[s.pick(candidates)]
}

func (s *Selector) pick(candidates []*domain.Smartlink) int {
	var total int64
	for _, link := range candidates {
		total += int64(link.Weight)
	}
	if total <= 0 {
		// Degenerate weights, fall back to uniform.
		return s.rand.Intn(len(candidates))
	}

	r := s.rand.Float64() * float64(total)
	var cum float64
	for i, link := range candidates {
		cum += float64(link.Weight)
		if r < cum {
			return i
		}
	}
	// Rounding edge: favor the last entry so none is unreachable.
	return len(candidates) - 1
}
