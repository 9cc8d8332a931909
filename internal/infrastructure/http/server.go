package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"pricetrack-service/internal/application"
	"pricetrack-service/internal/domain"
	"pricetrack-service/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

const msgNoData = "No data for this symbol yet"

type Server struct {
	svc  *application.QueryService
	ping func(ctx context.Context) error
}

func NewServer(svc *application.QueryService) *Server {
	return &Server{svc: svc, ping: svc.Ready}
}

// SetReadyCheck replaces the readiness probe used by /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type healthResponse struct {
	Status string `json:"status"`
	Time   int64  `json:"time"`
}

type quoteResponse struct {
	ID     int64   `json:"id"`
	Symbol string  `json:"symbol"`
	TS     int64   `json:"ts"`
	Price  float64 `json:"price"`
}

type pricePoint struct {
	TS    int64   `json:"ts"`
	Price float64 `json:"price"`
}

type historyResponse struct {
	Symbol string       `json:"symbol"`
	Points []pricePoint `json:"points"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	h := s.svc.Health()
	writeJSON(w, http.StatusOK, healthResponse{Status: h.Status, Time: h.Time})
}

func (s *Server) Latest(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.Latest(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNoData)
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{ID: q.ID, Symbol: string(q.Symbol), TS: q.TS, Price: q.Price})
}

func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	var limitParam *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limitParam); err != nil {
		badRequest(w, "limit must be an integer")
		return
	}
	limit := domain.DefaultHistoryLimit
	if limitParam != nil {
		limit = *limitParam
	}
	h, err := s.svc.History(r.Context(), chi.URLParam(r, "symbol"), limit)
	if err != nil {
		if errors.Is(err, application.ErrBadRequest) {
			badRequest(w, "limit must be between 1 and 10000")
			return
		}
		internalError(w, r, err)
		return
	}
	resp := historyResponse{Symbol: string(h.Symbol), Points: make([]pricePoint, 0, len(h.Points))}
	for _, p := range h.Points {
		resp.Points = append(resp.Points, pricePoint{TS: p.TS, Price: p.Price})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Symbols(w http.ResponseWriter, r *http.Request) {
	syms, err := s.svc.Symbols(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]string, 0, len(syms))
	for _, sym := range syms {
		out = append(out, string(sym))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logx.WithFields(r.Context()).Error("http.internal_error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
