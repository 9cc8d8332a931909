package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pricetrack-service/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

// memStore is an in-memory QuoteStore honoring the ordering rules of the
// real backends.
type memStore struct {
	mu      sync.RWMutex
	rows    []domain.Quote
	nextID  int64
	err     error
	pingErr error
}

func (m *memStore) Insert(_ context.Context, symbol domain.Symbol, ts int64, price float64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.rows = append(m.rows, domain.Quote{ID: m.nextID, Symbol: symbol, TS: ts, Price: price})
	return m.nextID, nil
}

func (m *memStore) Latest(_ context.Context, symbol domain.Symbol) (domain.Quote, error) {
	if m.err != nil {
		return domain.Quote{}, m.err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *domain.Quote
	for i := range m.rows {
		q := &m.rows[i]
		if q.Symbol != symbol {
			continue
		}
		if best == nil || q.TS > best.TS || (q.TS == best.TS && q.ID > best.ID) {
			best = q
		}
	}
	if best == nil {
		return domain.Quote{}, ErrNotFound
	}
	return *best, nil
}

func (m *memStore) History(_ context.Context, symbol domain.Symbol, limit int) ([]domain.PricePoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []domain.Quote
	for _, q := range m.rows {
		if q.Symbol == symbol {
			rows = append(rows, q)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TS != rows[j].TS {
			return rows[i].TS < rows[j].TS
		}
		return rows[i].ID < rows[j].ID
	})
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	out := make([]domain.PricePoint, 0, len(rows))
	for _, q := range rows {
		out = append(out, domain.PricePoint{TS: q.TS, Price: q.Price})
	}
	return out, nil
}

func (m *memStore) Symbols(context.Context) ([]domain.Symbol, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[domain.Symbol]bool{}
	var out []domain.Symbol
	for _, q := range m.rows {
		if !seen[q.Symbol] {
			seen[q.Symbol] = true
			out = append(out, q.Symbol)
		}
	}
	return out, nil
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) Close() {}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }
