package selector

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/joinemm/quotegame/pkg/challenge"
	"github.com/joinemm/quotegame/pkg/document"
)

// ErrEmptyPool is returned when nothing is selectable: the pool is
// empty, or every entry carries weight 0.
var ErrEmptyPool = errors.New("challenge pool is empty")

// PickOne selects one definition with probability proportional to its
// weight (sampling with replacement). weights aligns by index with
// pool; entries with weight 0 are never selected. A nil weights slice
// selects uniformly. Selection is deterministic for a given rng.
func PickOne(rng *rand.Rand, pool []challenge.Definition, weights []int) (challenge.Definition, error) {
	if len(pool) == 0 {
		return challenge.Definition{}, ErrEmptyPool
	}
	if weights == nil {
		return pool[rng.Intn(len(pool))], nil
	}
	if len(weights) != len(pool) {
		return challenge.Definition{}, fmt.Errorf("weights length %d does not match pool length %d", len(weights), len(pool))
	}

	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return challenge.Definition{}, ErrEmptyPool
	}

	n := rng.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if n < w {
			return pool[i], nil
		}
		n -= w
	}

	// unreachable: n < total by construction
	return pool[len(pool)-1], nil
}

// DrawThreshold draws a spawn threshold uniformly from the inclusive
// frequency range.
func DrawThreshold(rng *rand.Rand, freq document.FrequencyRange) int {
	return freq.Min + rng.Intn(freq.Max-freq.Min+1)
}
