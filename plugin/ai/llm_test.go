package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/nutrisense/nutrisense/internal/errors"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewProvider(&Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gemini-2.5-flash",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return provider
}

func completionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(&Config{})
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrCodeConfigurationMissing))
}

func TestGenerate(t *testing.T) {
	var gotModel string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req["model"].(string)
		json.NewEncoder(w).Encode(completionResponse("多補充蛋白質。"))
	})

	answer, err := provider.Generate(context.Background(), "早餐吃什麼?", 800, 0.8)
	require.NoError(t, err)
	assert.Equal(t, "多補充蛋白質。", answer)
	assert.Equal(t, "gemini-2.5-flash", gotModel)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := provider.Generate(context.Background(), "test", 800, 0.8)
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrCodeUpstreamRejected))
}

func TestGenerate_EmptyContent(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(completionResponse("   "))
	})

	_, err := provider.Generate(context.Background(), "test", 800, 0.8)
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrCodeUpstreamRejected))
}

func TestGenerate_UpstreamError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "internal"}}`, http.StatusInternalServerError)
	})

	_, err := provider.Generate(context.Background(), "test", 800, 0.8)
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrCodeUpstreamUnavailable))
}
