// Package transcript fetches a video transcript from the external
// transcript API and splits it into the chunked form the pipeline
// consumes.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brandlens/internal/text"
)

type Client struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	chunkSize    int
	chunkOverlap int
}

func NewClient(baseURL, apiKey string, chunkSize, chunkOverlap int) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 30 * time.Second},
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// FetchChunks retrieves the full transcript for the video and returns it
// as overlapping chunks. Any failure, including an empty transcript, is
// an error. The orchestrator decides how absence is handled.
func (c *Client) FetchChunks(ctx context.Context, videoID string) ([]string, error) {
	reqURL := fmt.Sprintf("%s?url=%s", c.baseURL,
		url.QueryEscape("https://youtu.be/"+videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcript api error for %s: status %d", videoID, resp.StatusCode)
	}

	var body struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode transcript response: %w", err)
	}

	segments := make([]string, 0, len(body.Content))
	for _, seg := range body.Content {
		if seg.Text != "" {
			segments = append(segments, seg.Text)
		}
	}

	full := strings.Join(segments, " ")
	if strings.TrimSpace(full) == "" {
		return nil, fmt.Errorf("empty transcript for video %s", videoID)
	}

	return text.Split(full, c.chunkSize, c.chunkOverlap), nil
}
