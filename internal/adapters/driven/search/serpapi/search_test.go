package serpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	p, err := New(Config{APIKey: "key", BaseURL: server.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)
	return p
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSearch_Success(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "crm software", q.Get("q"))
		assert.Equal(t, "2", q.Get("num"))
		assert.Equal(t, "key", q.Get("api_key"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]any{
				{"position": 1, "title": "One", "link": "https://one.example", "snippet": "first"},
				{"position": 2, "title": "No link"},
				{"title": "Three", "link": "https://three.example"},
				{"position": 4, "title": "Four", "link": "https://four.example"},
			},
		})
	})

	hits, err := p.Search(context.Background(), "  crm software ", 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, domain.SearchHit{Position: 1, Title: "One", URL: "https://one.example", Snippet: "first"}, hits[0])
	assert.Equal(t, "https://three.example", hits[1].URL)
	assert.Equal(t, 3, hits[1].Position)
}

func TestSearch_DefaultAndMaxLimit(t *testing.T) {
	var nums []string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		nums = append(nums, r.URL.Query().Get("num"))
		_, _ = w.Write([]byte(`{"organic_results":[]}`))
	})

	_, err := p.Search(context.Background(), "x", 0)
	require.NoError(t, err)
	_, err = p.Search(context.Background(), "x", 500)
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "100"}, nums)
}

func TestSearch_EmptyQuery(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := p.Search(context.Background(), "   ", 5)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_APIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid API key."}`))
	})

	_, err := p.Search(context.Background(), "x", 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "Invalid API key.")
	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "serpapi", pe.Provider)
	assert.Equal(t, "search", pe.Op)
}

func TestSearch_StatusError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := p.Search(context.Background(), "x", 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestSearch_ContextCancelled(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Search(ctx, "x", 5)

	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/account.json", r.URL.Path)
	})

	assert.NoError(t, p.Ping(context.Background()))
}
