package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Loader fetches a brand document over HTTP and extracts its paragraph
// text. Only <p> content is kept, so navigation, headers and script
// noise never reach the index.
type Loader struct {
	client *http.Client
}

func NewLoader() *Loader {
	return &Loader{client: &http.Client{Timeout: 15 * time.Second}}
}

func (l *Loader) Load(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %q: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", url, err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})

	if len(paragraphs) == 0 {
		return "", fmt.Errorf("document %q has no paragraph content", url)
	}
	return strings.Join(paragraphs, "\n\n"), nil
}
