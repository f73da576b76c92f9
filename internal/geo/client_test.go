package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_KMLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/km-location", r.URL.Path)
		assert.Equal(t, "BR-381", r.URL.Query().Get("rodovia"))
		assert.Equal(t, "MG", r.URL.Query().Get("uf"))
		assert.Equal(t, "120.5", r.URL.Query().Get("km"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rodovia":"BR-381","uf":"MG","km":120.5,"latitude":-19.8,"longitude":-43.9}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	loc, err := client.KMLocation(context.Background(), "BR-381", "MG", 120.5)
	require.NoError(t, err)
	assert.Equal(t, "BR-381", loc.Rodovia)
	assert.InDelta(t, -19.8, loc.Latitude, 0.0001)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"latitude":-19.8,"longitude":-43.9}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	coords, err := client.CoordinatesFromKM(context.Background(), "BR-381", "MG", 120)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.InDelta(t, -43.9, coords.Longitude, 0.0001)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "rodovia desconhecida", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.KMLocation(context.Background(), "XX-000", "ZZ", 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, IsHTTPError(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "rodovia desconhecida")
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.KMLocation(context.Background(), "BR-381", "MG", 120)
	require.Error(t, err)
	// initial attempt plus two retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.True(t, IsHTTPError(err, http.StatusServiceUnavailable))
}

func TestClient_ContextCancelStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.KMLocation(ctx, "BR-381", "MG", 120)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
