package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/cache"
)

func invalidate(t *testing.T, h *AdminHandler) InvalidateMetadataResponse {
	t.Helper()
	w := httptest.NewRecorder()
	h.InvalidateMetadata(w, httptest.NewRequest(http.MethodPost, "/api/admin/cache/metadata/invalidate", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response InvalidateMetadataResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestInvalidateMetadata(t *testing.T) {
	manager := cache.NewManager(false, time.Minute, zerolog.Nop())
	defer manager.Close()
	manager.Set(api.MetadataCacheKey, &api.Metadata{})

	h := NewAdminHandler(manager, zerolog.Nop())

	first := invalidate(t, h)
	assert.True(t, first.Invalidated)
	assert.Equal(t, 60.0, first.TTLSeconds)

	_, ok := manager.Get(api.MetadataCacheKey)
	assert.False(t, ok)

	second := invalidate(t, h)
	assert.False(t, second.Invalidated)
}
