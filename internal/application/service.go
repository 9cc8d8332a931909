package application

import (
	"context"

	"pricetrack-service/internal/domain"
)

// QueryService answers read queries over the quote store. It holds no
// per-request state and never writes.
type QueryService struct {
	store QuoteStore
	clock Clock
}

type Option func(*QueryService)

func WithClock(c Clock) Option { return func(s *QueryService) { s.clock = c } }

func NewQueryService(store QuoteStore, opts ...Option) *QueryService {
	s := &QueryService{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	return s
}

func (s *QueryService) Latest(ctx context.Context, symbol string) (domain.Quote, error) {
	return s.store.Latest(ctx, domain.NormalizeSymbol(symbol))
}

// History returns an empty History (not ErrNotFound) for symbols without
// quotes.
func (s *QueryService) History(ctx context.Context, symbol string, limit int) (domain.History, error) {
	if err := domain.ValidateHistoryLimit(limit); err != nil {
		return domain.History{}, ErrInvalidLimit
	}
	sym := domain.NormalizeSymbol(symbol)
	points, err := s.store.History(ctx, sym, limit)
	if err != nil {
		return domain.History{}, err
	}
	if points == nil {
		points = []domain.PricePoint{}
	}
	return domain.History{Symbol: sym, Points: points}, nil
}

func (s *QueryService) Symbols(ctx context.Context) ([]domain.Symbol, error) {
	syms, err := s.store.Symbols(ctx)
	if err != nil {
		return nil, err
	}
	if syms == nil {
		syms = []domain.Symbol{}
	}
	return syms, nil
}

// Health is liveness only and does not touch the store.
func (s *QueryService) Health() domain.Health {
	return domain.Health{Status: "ok", Time: s.clock.Now().Unix()}
}

// Ready reports whether the store answers a ping.
func (s *QueryService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
