package pg

import (
	"context"
	"errors"
	"fmt"

	"pricetrack-service/internal/application"
	"pricetrack-service/internal/domain"
	"pricetrack-service/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ application.QuoteStore = (*QuoteStore)(nil)

type QuoteStore struct{ db *DB }

func NewQuoteStore(db *DB) *QuoteStore { return &QuoteStore{db: db} }

func (s *QuoteStore) Insert(ctx context.Context, symbol domain.Symbol, ts int64, price float64) (int64, error) {
	const ins = `INSERT INTO quotes(symbol, ts, price) VALUES ($1, $2, $3) RETURNING id`
	log := logx.L().With(
		zap.String("store", "pg"),
		zap.String("operation", "Insert"),
		zap.String("symbol", string(symbol)),
		zap.Int64("ts", ts),
	)
	var id int64
	if err := s.db.Pool.QueryRow(ctx, ins, string(symbol), ts, price).Scan(&id); err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return 0, fmt.Errorf("insert quote: %w", err)
	}
	log.Debug("sql.exec_success", zap.Int64("id", id))
	return id, nil
}

func (s *QuoteStore) Latest(ctx context.Context, symbol domain.Symbol) (domain.Quote, error) {
	const q = `
        SELECT id, symbol, ts, price
        FROM quotes
        WHERE symbol=$1
        ORDER BY ts DESC, id DESC
        LIMIT 1`
	var out domain.Quote
	err := s.db.Pool.QueryRow(ctx, q, string(symbol)).Scan(&out.ID, &out.Symbol, &out.TS, &out.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quote{}, application.ErrNotFound
	}
	if err != nil {
		logx.L().Error("sql.query_failed",
			zap.String("store", "pg"),
			zap.String("operation", "Latest"),
			zap.String("symbol", string(symbol)),
			zap.Error(err),
		)
		return domain.Quote{}, fmt.Errorf("latest quote: %w", err)
	}
	return out, nil
}

func (s *QuoteStore) History(ctx context.Context, symbol domain.Symbol, limit int) ([]domain.PricePoint, error) {
	if err := domain.ValidateHistoryLimit(limit); err != nil {
		return nil, application.ErrInvalidLimit
	}
	const q = `
        SELECT ts, price FROM (
            SELECT id, ts, price
            FROM quotes
            WHERE symbol=$1
            ORDER BY ts DESC, id DESC
            LIMIT $2
        ) recent
        ORDER BY ts ASC, id ASC`
	rows, err := s.db.Pool.Query(ctx, q, string(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()
	out := make([]domain.PricePoint, 0, limit)
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.TS, &p.Price); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return out, nil
}

func (s *QuoteStore) Symbols(ctx context.Context) ([]domain.Symbol, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT DISTINCT symbol FROM quotes ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("symbols query: %w", err)
	}
	defer rows.Close()
	out := []domain.Symbol{}
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("symbols scan: %w", err)
		}
		out = append(out, domain.Symbol(sym))
	}
	return out, rows.Err()
}

func (s *QuoteStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *QuoteStore) Close() { s.db.Close() }
