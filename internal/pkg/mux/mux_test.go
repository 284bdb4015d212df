package mux

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(apiBase, streamBase string) *Client {
	c := New("token-id", "token-secret")
	if apiBase != "" {
		c.APIBase = apiBase
	}
	if streamBase != "" {
		c.StreamBase = streamBase
	}
	return c
}

func trackServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Basic "))
		assert.Contains(t, r.URL.Path, "/video/v1/assets/asset-1/tracks")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestGeneratedTextTrackIDPrefersExactLanguage(t *testing.T) {
	srv := trackServer(t, `{"data":[
		{"id":"t-en","type":"text","status":"ready","text_source":"generated_vod","language_code":"en"},
		{"id":"t-tr","type":"text","status":"ready","text_source":"generated_vod","language_code":"tr"}
	]}`)
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	id, err := c.GeneratedTextTrackID(context.Background(), "asset-1", "tr")
	require.NoError(t, err)
	assert.Equal(t, "t-tr", id)
}

func TestGeneratedTextTrackIDFallsBackToFirstReady(t *testing.T) {
	srv := trackServer(t, `{"data":[
		{"id":"t-sub","type":"text","status":"ready","text_source":"uploaded","language_code":"de"},
		{"id":"t-pending","type":"text","status":"preparing","text_source":"generated_vod","language_code":"de"},
		{"id":"t-first","type":"text","status":"ready","text_source":"generated_vod","language_code":"en"},
		{"id":"t-second","type":"text","status":"ready","text_source":"generated_vod","language_code":"fr"}
	]}`)
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	id, err := c.GeneratedTextTrackID(context.Background(), "asset-1", "de")
	require.NoError(t, err)
	assert.Equal(t, "t-first", id, "no exact match: earliest ready generated track wins")
}

func TestGeneratedTextTrackIDNoneReady(t *testing.T) {
	srv := trackServer(t, `{"data":[
		{"id":"t-pending","type":"text","status":"preparing","text_source":"generated_vod"}
	]}`)
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	id, err := c.GeneratedTextTrackID(context.Background(), "asset-1", "")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestGeneratedTextTrackIDMissingCredentials(t *testing.T) {
	c := New("", "")
	_, err := c.GeneratedTextTrackID(context.Background(), "asset-1", "")
	assert.Error(t, err)
}

func TestTranscriptTextDownloadsAndCaps(t *testing.T) {
	long := strings.Repeat("a", maxTranscriptChars+500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playback-1/text/track-1.txt", r.URL.Path)
		_, _ = w.Write([]byte(long))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	text, err := c.TranscriptText(context.Background(), "playback-1", "track-1")
	require.NoError(t, err)
	assert.Len(t, text, maxTranscriptChars)
}

func TestTranscriptTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL)
	_, err := c.TranscriptText(context.Background(), "playback-1", "track-1")
	assert.Error(t, err)
}
