package provider

import (
	"context"
	"math/rand"
	"sync"

	"pricetrack-service/internal/application"
	"pricetrack-service/internal/domain"
)

// Ensure Fake implements application.PriceSource.
var _ application.PriceSource = (*Fake)(nil)

// Fake walks a price per symbol starting at base. Step 0 returns base
// forever. Symbols listed in Missing always report no data.
type Fake struct {
	base    float64
	step    float64
	Missing map[domain.Symbol]bool

	mu   sync.Mutex
	rng  *rand.Rand
	last map[domain.Symbol]float64
}

func NewFake(base, step float64, seed int64) *Fake {
	return &Fake{
		base: base,
		step: step,
		rng:  rand.New(rand.NewSource(seed)),
		last: map[domain.Symbol]float64{},
	}
}

func (f *Fake) Fetch(_ context.Context, symbol domain.Symbol) (float64, bool) {
	if f.Missing[symbol] {
		return 0, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.last[symbol]
	if !ok {
		p = f.base
	} else if f.step > 0 {
		p += (f.rng.Float64()*2 - 1) * f.step
		if p <= 0 {
			p = f.step
		}
	}
	f.last[symbol] = p
	return p, true
}
