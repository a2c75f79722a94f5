package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{baseURL: srv.URL, client: srv.Client()}
}

func TestRawURL(t *testing.T) {
	c := NewClient("raw.githubusercontent.com")

	url := c.RawURL("microsoft/TypeScript-TmLanguage", "ab7e235", "TypeScriptReact.tmLanguage")
	assert.Equal(t,
		"https://raw.githubusercontent.com/microsoft/TypeScript-TmLanguage/ab7e235/TypeScriptReact.tmLanguage",
		url)
}

func TestRawURL_EscapesPathSegments(t *testing.T) {
	c := NewClient("raw.example.com")

	url := c.RawURL("owner/repo", "abc1234", "grammars/Foo Bar.tmLanguage")
	assert.Equal(t,
		"https://raw.example.com/owner/repo/abc1234/grammars/Foo%20Bar.tmLanguage",
		url)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/owner/repo/abc1234/LICENSE", r.URL.Path)
		w.Write([]byte("MIT License"))
	}))
	defer srv.Close()

	body, err := testClient(srv).Fetch(context.Background(), "owner/repo", "abc1234", "LICENSE")
	require.NoError(t, err)
	assert.Equal(t, "MIT License", string(body))
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(srv).Fetch(context.Background(), "owner/repo", "abc1234", "missing.cson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.cson")
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never seen"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv).Fetch(ctx, "owner/repo", "abc1234", "LICENSE")
	assert.Error(t, err)
}
