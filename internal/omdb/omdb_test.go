package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, APIKey: "secret-key", RequestsPerSecond: 100, Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestSearchByTitleRelaysBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "The Matrix", r.URL.Query().Get("t"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Title":"The Matrix","Year":"1999","Response":"True"}`))
	}))
	defer srv.Close()

	body, err := newTestClient(t, srv.URL+"/").SearchByTitle(context.Background(), "The Matrix")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Title":"The Matrix","Year":"1999","Response":"True"}`, string(body))
}

func TestSearchByTitleNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).SearchByTitle(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchByTitleInvalidJson(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).SearchByTitle(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestSearchByTitleUnreachableDoesNotLeakKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).SearchByTitle(context.Background(), "x")
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestSearchByTitleCanceledWhileThrottled(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1/", RequestsPerSecond: 0.001, Timeout: time.Second})
	require.NoError(t, err)
	// drain the only token
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = c.SearchByTitle(ctx, "x")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://x", RequestsPerSecond: 0})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "://bad", RequestsPerSecond: 1})
	assert.Error(t, err)
}
