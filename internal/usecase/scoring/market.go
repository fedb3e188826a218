package scoring

import (
	"math/rand"
	"sync"
	"time"
)

// Market is the source of the market-condition perturbation: +5 or -5.
type Market interface {
	Factor() int
}

// RandMarket draws the perturbation from a seeded generator.
type RandMarket struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandMarket seeds from the clock when seed is 0.
func NewRandMarket(seed int64) *RandMarket {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandMarket{r: rand.New(rand.NewSource(seed))}
}

func (m *RandMarket) Factor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.r.Float64() > 0.5 {
		return 5
	}
	return -5
}

// FixedMarket always returns itself.
type FixedMarket int

func (f FixedMarket) Factor() int { return int(f) }
