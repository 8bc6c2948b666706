// ABOUTME: Health check handler for the Huma API
// ABOUTME: Reports whether the article database is reachable

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health checks
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a health handler. db may be nil.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, h.Health)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

// Health returns ok when the database answers
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			return nil, huma.Error503ServiceUnavailable("database unavailable", err)
		}
	}

	resp := &HealthOutput{}
	resp.Body.Status = "ok"
	return resp, nil
}
