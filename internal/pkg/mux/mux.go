package mux

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

const (
	defaultAPIBase    = "https://api.mux.com"
	defaultStreamBase = "https://stream.mux.com"

	// Transcripts can be huge; keep downloads bounded.
	maxTranscriptChars = 50000
)

// Track is one entry of a Mux asset's track listing.
type Track struct {
	ID           string `json:"id"`
	Type         string `json:"type"`          // "text"
	Status       string `json:"status"`        // "ready"
	TextSource   string `json:"text_source"`   // "generated_vod"
	LanguageCode string `json:"language_code"` // "en", "tr", ...
	Name         string `json:"name"`
}

// Client talks to the Mux Video API and CDN for auto-generated transcripts.
type Client struct {
	tokenID     string
	tokenSecret string
	httpClient  *http.Client

	// Overridable in tests.
	APIBase    string
	StreamBase string
}

// New creates a Mux client. Credentials may be empty; calls then fail and
// callers treat that as "transcript not ready".
func New(tokenID, tokenSecret string) *Client {
	return &Client{
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		APIBase:     defaultAPIBase,
		StreamBase:  defaultStreamBase,
	}
}

// GeneratedTextTrackID lists the asset's tracks and returns the id of the
// ready auto-generated caption track. When preferredLanguage is set, an exact
// language match wins; otherwise the earliest-ready (first listed) track is
// used. Returns "" with nil error when no usable track exists yet.
func (c *Client) GeneratedTextTrackID(ctx context.Context, assetID, preferredLanguage string) (string, error) {
	if c.tokenID == "" || c.tokenSecret == "" {
		return "", fmt.Errorf("mux credentials are not configured")
	}

	url := fmt.Sprintf("%s/video/v1/assets/%s/tracks", strings.TrimRight(c.APIBase, "/"), neturl.PathEscape(assetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mux track listing failed: %s", resp.Status)
	}

	var payload struct {
		Data []Track `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode mux track listing: %w", err)
	}

	var candidates []Track
	for _, t := range payload.Data {
		if t.Type == "text" && t.TextSource == "generated_vod" && t.Status == "ready" {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}

	if preferredLanguage != "" {
		for _, t := range candidates {
			if strings.EqualFold(t.LanguageCode, preferredLanguage) {
				return t.ID, nil
			}
		}
	}
	return candidates[0].ID, nil
}

// TranscriptText downloads the plain-text transcript for a track from the Mux
// CDN, capped to a bounded length.
func (c *Client) TranscriptText(ctx context.Context, playbackID, trackID string) (string, error) {
	url := fmt.Sprintf("%s/%s/text/%s.txt",
		strings.TrimRight(c.StreamBase, "/"), neturl.PathEscape(playbackID), neturl.PathEscape(trackID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mux transcript fetch failed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxTranscriptChars))
	if err != nil {
		return "", err
	}

	text := string(body)
	if runes := []rune(text); len(runes) > maxTranscriptChars {
		text = string(runes[:maxTranscriptChars])
	}
	return text, nil
}

func (c *Client) authHeader() string {
	basic := base64.StdEncoding.EncodeToString([]byte(c.tokenID + ":" + c.tokenSecret))
	return "Basic " + basic
}
