package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare/pkg/logger"
	"rideshare/storage/memory"
)

func geminiServer(t *testing.T, reply string, status int, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Contents)

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{map[string]interface{}{"text": reply}},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(srv *httptest.Server, cache Cache) *Client {
	return New(Config{APIKey: "secret", Model: "test-model", BaseURL: srv.URL, Cache: cache}, logger.Nop())
}

func TestClient_FallbacksWithoutKey(t *testing.T) {
	ctx := context.Background()
	c := New(Config{}, logger.Nop())

	assert.False(t, c.Enabled())
	assert.Equal(t, safetyBriefFallback, c.SafetyBrief(ctx, "Toronto", "Montreal"))
	assert.Equal(t, "Direct ride from Toronto to Montreal.", c.RideDescription(ctx, "Toronto", "Montreal", nil))
	assert.Equal(t, "Ride from Toronto to Montreal via Kingston.", c.RideDescription(ctx, "Toronto", "Montreal", []string{"Kingston"}))
	assert.Equal(t, 43, c.SuggestPrice(ctx, "Toronto", "Montreal", 541))
	assert.Equal(t, 5, c.SuggestPrice(ctx, "A", "B", 3))

	loc := c.ResolveLocation(ctx, "Union Station", "Toronto")
	assert.Equal(t, "Union Station", loc.Address)
	assert.Contains(t, loc.MapLinkURI, "query=Union+Station")

	loc = c.ResolveLocation(ctx, "  ", "Toronto")
	assert.Equal(t, "Toronto", loc.Address)
}

func TestClient_SafetyBrief(t *testing.T) {
	var calls int32
	srv := geminiServer(t, "Expect snow near Kingston.", http.StatusOK, &calls)
	defer srv.Close()

	c := newTestClient(srv, nil)
	assert.Equal(t, "Expect snow near Kingston.", c.SafetyBrief(context.Background(), "Toronto", "Montreal"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ServerErrorFallsBack(t *testing.T) {
	var calls int32
	srv := geminiServer(t, "", http.StatusInternalServerError, &calls)
	defer srv.Close()

	c := newTestClient(srv, nil)
	assert.Equal(t, safetyBriefFallback, c.SafetyBrief(context.Background(), "Toronto", "Montreal"))
	assert.Equal(t, FallbackPrice(100), c.SuggestPrice(context.Background(), "A", "B", 100))
}

func TestClient_ResolveLocationJSON(t *testing.T) {
	var calls int32
	srv := geminiServer(t, "```json\n{\"address\": \"65 Front St W, Toronto, ON\"}\n```", http.StatusOK, &calls)
	defer srv.Close()

	c := newTestClient(srv, nil)
	loc := c.ResolveLocation(context.Background(), "Union Station", "Toronto")
	assert.Equal(t, "65 Front St W, Toronto, ON", loc.Address)
	assert.True(t, strings.HasPrefix(loc.MapLinkURI, "https://www.google.com/maps/search/"))
}

func TestClient_ResolveLocationGarbageFallsBack(t *testing.T) {
	var calls int32
	srv := geminiServer(t, "I am not sure", http.StatusOK, &calls)
	defer srv.Close()

	c := newTestClient(srv, nil)
	loc := c.ResolveLocation(context.Background(), "Union Station", "Toronto")
	assert.Equal(t, "Union Station", loc.Address)
}

func TestClient_SuggestPriceParsesReply(t *testing.T) {
	var calls int32
	srv := geminiServer(t, `{"price": 41.6}`, http.StatusOK, &calls)
	defer srv.Close()
	assert.Equal(t, 42, newTestClient(srv, nil).SuggestPrice(context.Background(), "A", "B", 500))

	srv2 := geminiServer(t, "About 38 dollars", http.StatusOK, &calls)
	defer srv2.Close()
	assert.Equal(t, 38, newTestClient(srv2, nil).SuggestPrice(context.Background(), "A", "B", 500))
}

func TestClient_UsesCache(t *testing.T) {
	var calls int32
	srv := geminiServer(t, "Clear roads.", http.StatusOK, &calls)
	defer srv.Close()

	cache := memory.NewBlob()
	c := newTestClient(srv, cache)
	ctx := context.Background()

	require.Equal(t, "Clear roads.", c.SafetyBrief(ctx, "Toronto", "Montreal"))
	require.Equal(t, "Clear roads.", c.SafetyBrief(ctx, "Toronto", "Montreal"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	c.SafetyBrief(ctx, "Toronto", "Ottawa")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanText("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", cleanText("  plain \n"))
	assert.Equal(t, "x", cleanText("```\nx\n```"))
}
