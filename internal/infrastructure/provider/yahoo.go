package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"pricetrack-service/internal/application"
	"pricetrack-service/internal/domain"
	"pricetrack-service/internal/infrastructure/httpx"
	"pricetrack-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

const yahooChartPath = "/v8/finance/chart/"

var errNoUsablePrice = errors.New("no usable price")

// Yahoo reads prices from the Yahoo Finance chart endpoint. The primary
// lookup is the last one-minute close of the current day; the fallback is
// the daily series, preferring the snapshot in the chart metadata.
type Yahoo struct {
	BaseURL string
	Client  *httpx.Client
	Log     *zap.Logger
}

var _ application.PriceSource = (*Yahoo)(nil)

type chartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *Yahoo) Fetch(ctx context.Context, symbol domain.Symbol) (price float64, ok bool) {
	log := y.Log
	if log == nil {
		log = logx.L()
	}
	log = log.With(zap.String("provider", "yahoo"), zap.String("symbol", string(symbol)))
	defer func() {
		if r := recover(); r != nil {
			log.Error("provider.panic", zap.Any("r", r))
			price, ok = 0, false
		}
	}()

	p, err := y.recentClose(ctx, symbol)
	if err == nil {
		return p, true
	}
	log.Debug("provider.primary_failed", zap.Error(err))

	p, err = y.snapshot(ctx, symbol)
	if err == nil {
		return p, true
	}
	log.Warn("provider.no_data", zap.Error(err))
	return 0, false
}

func (y *Yahoo) recentClose(ctx context.Context, symbol domain.Symbol) (float64, error) {
	resp, err := y.chart(ctx, symbol, "1d", "1m")
	if err != nil {
		return 0, err
	}
	if p, ok := lastClose(resp); ok {
		return p, nil
	}
	return 0, errNoUsablePrice
}

func (y *Yahoo) snapshot(ctx context.Context, symbol domain.Symbol) (float64, error) {
	resp, err := y.chart(ctx, symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}
	if m := resp.Chart.Result[0].Meta.RegularMarketPrice; usable(m) {
		return m, nil
	}
	if p, ok := lastClose(resp); ok {
		return p, nil
	}
	return 0, errNoUsablePrice
}

func (y *Yahoo) chart(ctx context.Context, symbol domain.Symbol, rng, interval string) (chartResp, error) {
	if y.BaseURL == "" || y.Client == nil {
		return chartResp{}, errors.New("yahoo: missing configuration")
	}
	u, err := url.Parse(strings.TrimRight(y.BaseURL, "/") + yahooChartPath + url.PathEscape(string(symbol)))
	if err != nil {
		return chartResp{}, fmt.Errorf("yahoo: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("range", rng)
	q.Set("interval", interval)
	q.Set("includePrePost", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return chartResp{}, fmt.Errorf("yahoo: create request: %w", err)
	}
	var body chartResp
	if err := y.Client.DoJSON(ctx, req, &body); err != nil {
		return chartResp{}, fmt.Errorf("yahoo: %s/%s: %w", rng, interval, err)
	}
	if body.Chart.Error != nil {
		return chartResp{}, fmt.Errorf("yahoo: api error %s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return chartResp{}, errors.New("yahoo: empty result")
	}
	return body, nil
}

// lastClose returns the most recent non-null close of the first series.
func lastClose(resp chartResp) (float64, bool) {
	quotes := resp.Chart.Result[0].Indicators.Quote
	if len(quotes) == 0 {
		return 0, false
	}
	closes := quotes[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil && usable(*closes[i]) {
			return *closes[i], true
		}
	}
	return 0, false
}

func usable(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
