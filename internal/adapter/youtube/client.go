// Package youtube wraps the YouTube Data API v3 calls the pipeline
// acquires from: video existence, relevance-ranked comments and
// engagement statistics.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"brandlens/internal/stats"
)

// ErrVideoNotFound marks a reference that is malformed or points at no
// retrievable video.
var ErrVideoNotFound = errors.New("video not found")

// Matches watch, embed, shortened and nocookie URL forms; the capture is
// the 11-character video id.
var videoIDPattern = regexp.MustCompile(`(?:youtube(?:-nocookie)?\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// VideoIDFromURL extracts the video id from a YouTube URL.
func VideoIDFromURL(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", false
	}
	m := videoIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

type Client struct {
	svc          *youtube.Service
	commentLimit int64
}

func NewClient(ctx context.Context, apiKey string, commentLimit int) (*Client, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	if commentLimit <= 0 {
		commentLimit = 100
	}
	return &Client{svc: svc, commentLimit: int64(commentLimit)}, nil
}

// Resolve validates the URL shape and checks the video exists, returning
// its id. Every failure mode reads as ErrVideoNotFound: the caller only
// needs to know the reference is unusable.
func (c *Client) Resolve(ctx context.Context, rawURL string) (string, error) {
	id, ok := VideoIDFromURL(rawURL)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a video URL", ErrVideoNotFound, rawURL)
	}

	resp, err := c.svc.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: lookup failed: %v", ErrVideoNotFound, err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %q", ErrVideoNotFound, id)
	}
	return id, nil
}

// FetchComments returns the top comments by relevance, plain text. A
// video with comments disabled or none at all yields an empty slice, not
// an error — empty is valid input downstream.
func (c *Client) FetchComments(ctx context.Context, videoID string) ([]string, error) {
	resp, err := c.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(c.commentLimit).
		Order("relevance").
		TextFormat("plainText").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", videoID, err)
	}

	comments := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		if t := item.Snippet.TopLevelComment.Snippet.TextDisplay; t != "" {
			comments = append(comments, t)
		}
	}
	return comments, nil
}

func (c *Client) FetchStats(ctx context.Context, videoID string) (*stats.Counters, error) {
	resp, err := c.svc.Videos.List([]string{"statistics"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list statistics for %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
		return nil, fmt.Errorf("no statistics for video %s", videoID)
	}

	st := resp.Items[0].Statistics
	return &stats.Counters{
		Views:    strconv.FormatUint(st.ViewCount, 10),
		Likes:    strconv.FormatUint(st.LikeCount, 10),
		Comments: strconv.FormatUint(st.CommentCount, 10),
	}, nil
}
