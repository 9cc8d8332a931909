package application

//go:generate mockgen -source=ports.go -destination=../infrastructure/worker/mocks_test.go -package=worker

import (
	"context"

	"pricetrack-service/internal/domain"
)

// QuoteStore is the append-only quote log shared by the poller (single
// writer) and the query service (readers).
type QuoteStore interface {
	Insert(ctx context.Context, symbol domain.Symbol, ts int64, price float64) (int64, error)
	// Latest returns ErrNotFound when the symbol has no quotes.
	Latest(ctx context.Context, symbol domain.Symbol) (domain.Quote, error)
	// History returns up to limit most recent points in ascending ts order.
	// An unknown symbol yields an empty slice.
	History(ctx context.Context, symbol domain.Symbol, limit int) ([]domain.PricePoint, error)
	Symbols(ctx context.Context) ([]domain.Symbol, error)
	Ping(ctx context.Context) error
	Close()
}

// PriceSource fetches the most recent price for a symbol. ok=false means
// no data; implementations never return provider errors to the caller.
type PriceSource interface {
	Fetch(ctx context.Context, symbol domain.Symbol) (price float64, ok bool)
}
