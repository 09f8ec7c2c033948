// Package knowledge holds the on-demand brand knowledge index: one
// document, split into overlapping windows, embedded, queryable by
// similarity. The index is process-wide and single-slot — re-ingestion
// replaces the whole chunk set, there is no incremental update.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"brandlens/internal/text"
)

// ErrNotReady is returned by Query before any ingestion has completed.
// Querying an empty index is a caller bug and must fail loudly rather
// than silently ground on nothing.
var ErrNotReady = errors.New("knowledge index not ready: no document ingested")

type Chunk struct {
	Text   string
	Vector []float32
	Offset int
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type Loader interface {
	Load(ctx context.Context, url string) (string, error)
}

type Index struct {
	embedder Embedder
	loader   Loader

	chunkSize    int
	chunkOverlap int
	topK         int

	// ingestMu serializes overlapping ingestions; current is swapped
	// wholesale so readers see either the old or the new generation,
	// never a mix.
	ingestMu sync.Mutex
	current  atomic.Pointer[[]Chunk]
}

func NewIndex(embedder Embedder, loader Loader, chunkSize, chunkOverlap, topK int) *Index {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	if topK <= 0 {
		topK = 3
	}
	return &Index{
		embedder:     embedder,
		loader:       loader,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		topK:         topK,
	}
}

// Ingest fetches the document, splits it into overlapping windows,
// embeds each window and atomically replaces the index content. On any
// failure the previous generation stays in place.
func (ix *Index) Ingest(ctx context.Context, url string) error {
	ix.ingestMu.Lock()
	defer ix.ingestMu.Unlock()

	doc, err := ix.loader.Load(ctx, url)
	if err != nil {
		return fmt.Errorf("load document %q: %w", url, err)
	}

	parts := text.Split(doc, ix.chunkSize, ix.chunkOverlap)
	if len(parts) == 0 {
		return fmt.Errorf("document %q produced no chunks", url)
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, parts)
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w", len(parts), err)
	}
	if len(vectors) != len(parts) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(parts))
	}

	chunks := make([]Chunk, len(parts))
	offset := 0
	for i, p := range parts {
		chunks[i] = Chunk{Text: p, Vector: vectors[i], Offset: offset}
		offset += len(p)
	}

	ix.current.Store(&chunks)
	slog.InfoContext(ctx, "knowledge index replaced", "url", url, "chunks", len(chunks))
	return nil
}

// Query embeds q and returns the k most similar chunks concatenated in
// rank order. k <= 0 falls back to the configured top-k.
func (ix *Index) Query(ctx context.Context, q string, k int) (string, error) {
	cur := ix.current.Load()
	if cur == nil {
		return "", ErrNotReady
	}
	if k <= 0 {
		k = ix.topK
	}

	qv, err := ix.embedder.Embed(ctx, q)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	chunks := *cur
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(chunks))
	for i := range chunks {
		ranked[i] = scored{idx: i, score: cosine(qv, chunks[i].Vector)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	if k > len(ranked) {
		k = len(ranked)
	}
	texts := make([]string, k)
	for i := 0; i < k; i++ {
		texts[i] = chunks[ranked[i].idx].Text
	}
	return strings.Join(texts, "\n\n"), nil
}

// Retrieve satisfies the agent retrieval tool contract.
func (ix *Index) Retrieve(ctx context.Context, query string) (string, error) {
	return ix.Query(ctx, query, 0)
}

// Len reports the size of the current generation, zero before ingest.
func (ix *Index) Len() int {
	if cur := ix.current.Load(); cur != nil {
		return len(*cur)
	}
	return 0
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
