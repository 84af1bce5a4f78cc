package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/navigator-gateway/internal/redirects"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler exposes read-only views of the redirect table over HTTP.
type Handler struct {
	table *redirects.Table

	clock     func() time.Time
	startedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over the given table.
func NewHandler(table *redirects.Table, opts ...HandlerOption) *Handler {
	h := &Handler{
		table: table,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Theme:     string(h.table.Theme()),
		Rules:     h.table.Len(),
		StartedAt: h.startedAt,
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListRedirects(w http.ResponseWriter, _ *http.Request) {
	rules := h.table.Rules()
	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleResponse{
			Source:      rule.Source,
			Destination: rule.Destination,
			Permanent:   rule.Permanent,
			StatusCode:  rule.StatusCode(),
		})
	}

	resp := redirectsResponse{
		Theme:      string(h.table.Theme()),
		Count:      len(out),
		Overridden: h.table.Overrides(),
		Rules:      out,
		BuiltAt:    h.startedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type ruleResponse struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Permanent   bool   `json:"permanent"`
	StatusCode  int    `json:"statusCode"`
}

type redirectsResponse struct {
	Theme      string         `json:"theme"`
	Count      int            `json:"count"`
	Overridden int            `json:"overridden"`
	Rules      []ruleResponse `json:"rules"`
	BuiltAt    time.Time      `json:"builtAt"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Theme     string    `json:"theme"`
	Rules     int       `json:"rules"`
	StartedAt time.Time `json:"startedAt"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
