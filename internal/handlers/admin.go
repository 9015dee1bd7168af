package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/api"
)

// CacheInvalidator drops cached metadata on demand
type CacheInvalidator interface {
	ForceInvalidate(key string) *time.Duration
	GetTTL() time.Duration
}

// AdminHandler handles administrative operations
type AdminHandler struct {
	cache  CacheInvalidator
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(cache CacheInvalidator, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{cache: cache, logger: logger}
}

// InvalidateMetadataResponse reports the outcome of a metadata invalidation
type InvalidateMetadataResponse struct {
	Invalidated bool    `json:"invalidated"`
	AgeSeconds  float64 `json:"age_seconds,omitempty"`
	TTLSeconds  float64 `json:"ttl_seconds"`
}

// InvalidateMetadata handles POST /api/admin/cache/metadata/invalidate.
// The next page load fetches pharmacies and medications from the endpoint.
func (h *AdminHandler) InvalidateMetadata(w http.ResponseWriter, r *http.Request) {
	response := InvalidateMetadataResponse{TTLSeconds: h.cache.GetTTL().Seconds()}
	if age := h.cache.ForceInvalidate(api.MetadataCacheKey); age != nil {
		response.Invalidated = true
		response.AgeSeconds = age.Seconds()
		h.logger.Info().Dur("age", *age).Msg("metadata cache invalidated")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
