package handlers

import (
	"encoding/json"
	"net/http"

	"pharmacy-dashboard/internal/cache"
)

// CacheStatser reports metadata cache statistics
type CacheStatser interface {
	GetStats() cache.CacheStats
}

// SessionCounter reports the number of live browser sessions
type SessionCounter interface {
	Len() int
}

// HealthHandler handles health check requests
type HealthHandler struct {
	cache    CacheStatser
	sessions SessionCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cache CacheStatser, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{cache: cache, sessions: sessions}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Sessions int               `json:"sessions"`
	Cache    *cache.CacheStats `json:"cache,omitempty"`
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "healthy"}
	if h.sessions != nil {
		response.Sessions = h.sessions.Len()
	}
	if h.cache != nil {
		stats := h.cache.GetStats()
		response.Cache = &stats
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
