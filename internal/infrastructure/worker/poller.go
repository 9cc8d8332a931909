package worker

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"pricetrack-service/internal/application"
	"pricetrack-service/internal/domain"

	"go.uber.org/zap"
)

var _ application.Worker = (*Poller)(nil)

type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSampling
)

func (p Phase) String() string {
	if p == PhaseSampling {
		return "sampling"
	}
	return "idle"
}

const (
	defaultInterval     = 15 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

// Config is the fixed sampling plan of a Poller.
type Config struct {
	Symbols      []domain.Symbol
	Interval     time.Duration
	FetchTimeout time.Duration
}

// CycleReport lists the outcome per symbol of one pass.
type CycleReport struct {
	Saved   []domain.Symbol
	Skipped []domain.Symbol
	Failed  []domain.Symbol
}

// Poller samples every configured symbol once per interval and appends
// successful prices to the store. It is the store's only writer.
type Poller struct {
	cfg    Config
	source application.PriceSource
	store  application.QuoteStore
	clock  application.Clock
	log    *zap.Logger

	phase  atomic.Int32
	cycles atomic.Int64
}

type Option func(*Poller)

func WithClock(c application.Clock) Option { return func(p *Poller) { p.clock = c } }
func WithLogger(l *zap.Logger) Option       { return func(p *Poller) { p.log = l } }

func NewPoller(cfg Config, source application.PriceSource, store application.QuoteStore, opts ...Option) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	cfg.Symbols = append([]domain.Symbol(nil), cfg.Symbols...)
	p := &Poller{cfg: cfg, source: source, store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.clock == nil {
		p.clock = application.SystemClock()
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

func (p *Poller) Phase() Phase { return Phase(p.phase.Load()) }

// Cycles returns the number of completed cycles.
func (p *Poller) Cycles() int64 { return p.cycles.Load() }

// Start runs cycles until ctx is canceled. Cancellation is observed between
// cycles; a cycle already in progress runs to completion.
func (p *Poller) Start(ctx context.Context) {
	p.log.Info("poller.started",
		zap.Stringers("symbols", p.cfg.Symbols),
		zap.Duration("interval", p.cfg.Interval),
	)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller.stopped", zap.Int64("cycles", p.Cycles()))
			return
		case <-timer.C:
		}
		p.RunCycle(context.WithoutCancel(ctx))
		timer.Reset(p.cfg.Interval)
	}
}

// RunCycle samples each symbol once in configured order. Failures for one
// symbol never stop the others.
func (p *Poller) RunCycle(ctx context.Context) CycleReport {
	p.phase.Store(int32(PhaseSampling))
	defer p.phase.Store(int32(PhaseIdle))

	var rep CycleReport
	for _, sym := range p.cfg.Symbols {
		log := p.log.With(zap.String("symbol", string(sym)))

		fctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
		price, ok := p.source.Fetch(fctx, sym)
		cancel()
		if !ok {
			log.Warn("poller.no_price")
			rep.Skipped = append(rep.Skipped, sym)
			continue
		}
		if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			log.Warn("poller.invalid_price", zap.Float64("price", price))
			rep.Skipped = append(rep.Skipped, sym)
			continue
		}

		ts := p.clock.Now().Unix()
		id, err := p.store.Insert(ctx, sym, ts, price)
		if err != nil {
			log.Error("poller.insert_failed", zap.Error(err))
			rep.Failed = append(rep.Failed, sym)
			continue
		}
		log.Info("poller.saved", zap.Int64("id", id), zap.Int64("ts", ts), zap.Float64("price", price))
		rep.Saved = append(rep.Saved, sym)
	}

	p.cycles.Add(1)
	p.log.Info("poller.cycle_done",
		zap.Int("saved", len(rep.Saved)),
		zap.Int("skipped", len(rep.Skipped)),
		zap.Int("failed", len(rep.Failed)),
	)
	return rep
}
