package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pricetrack-service/internal/application"
	"pricetrack-service/internal/domain"
	"pricetrack-service/internal/infrastructure/logx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const latestKeyPrefix = "quote:latest:"

var _ application.QuoteStore = (*CachedStore)(nil)

// CachedStore keeps the latest quote per symbol in Redis in front of a
// durable QuoteStore. Cache failures fall back to the wrapped store and are
// never returned to callers.
type CachedStore struct {
	application.QuoteStore
	Client *redis.Client
	TTL    time.Duration
}

func New(store application.QuoteStore, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{QuoteStore: store, Client: client, TTL: ttl}
}

type cachedQuote struct {
	ID     int64   `json:"id"`
	Symbol string  `json:"symbol"`
	TS     int64   `json:"ts"`
	Price  float64 `json:"price"`
}

func latestKey(symbol domain.Symbol) string { return latestKeyPrefix + string(symbol) }

func (s *CachedStore) Insert(ctx context.Context, symbol domain.Symbol, ts int64, price float64) (int64, error) {
	id, err := s.QuoteStore.Insert(ctx, symbol, ts, price)
	if err != nil {
		return 0, err
	}
	s.put(ctx, domain.Quote{ID: id, Symbol: symbol, TS: ts, Price: price})
	return id, nil
}

func (s *CachedStore) Latest(ctx context.Context, symbol domain.Symbol) (domain.Quote, error) {
	raw, err := s.Client.Get(ctx, latestKey(symbol)).Bytes()
	switch {
	case err == nil:
		var cq cachedQuote
		if jerr := json.Unmarshal(raw, &cq); jerr == nil {
			return domain.Quote{ID: cq.ID, Symbol: domain.Symbol(cq.Symbol), TS: cq.TS, Price: cq.Price}, nil
		}
		logx.L().Warn("cache.decode_failed", zap.String("symbol", string(symbol)))
	case !errors.Is(err, redis.Nil):
		logx.L().Warn("cache.get_failed", zap.String("symbol", string(symbol)), zap.Error(err))
	}

	q, err := s.QuoteStore.Latest(ctx, symbol)
	if err != nil {
		return domain.Quote{}, err
	}
	s.put(ctx, q)
	return q, nil
}

func (s *CachedStore) Close() {
	_ = s.Client.Close()
	s.QuoteStore.Close()
}

// put only moves the cached entry forward in (ts, id) order, so a reader
// refilling from an older snapshot cannot hide a newer insert.
func (s *CachedStore) put(ctx context.Context, q domain.Quote) {
	payload, err := json.Marshal(cachedQuote{ID: q.ID, Symbol: string(q.Symbol), TS: q.TS, Price: q.Price})
	if err != nil {
		return
	}
	key := latestKey(q.Symbol)
	err = s.Client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == nil {
			var cur cachedQuote
			if json.Unmarshal(raw, &cur) == nil && (cur.TS > q.TS || (cur.TS == q.TS && cur.ID >= q.ID)) {
				return nil
			}
		} else if !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, payload, s.TTL)
			return nil
		})
		return err
	}, key)
	if err != nil {
		logx.L().Warn("cache.set_failed", zap.String("symbol", string(q.Symbol)), zap.Error(err))
	}
}
