package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder maps texts onto a small keyword vocabulary so similarity
// is deterministic: a chunk scores high against a query exactly when
// they share vocabulary words.
type stubEmbedder struct{}

var vocabulary = []string{"positioning", "pricing", "sustainability"}

func embedVec(text string) []float32 {
	v := make([]float32, len(vocabulary)+1)
	v[len(vocabulary)] = 0.1 // keeps vectors non-zero
	lower := strings.ToLower(text)
	for i, word := range vocabulary {
		if strings.Contains(lower, word) {
			v[i] = 1
		}
	}
	return v
}

func (stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return embedVec(text), nil
}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedVec(t)
	}
	return out, nil
}

type stubLoader struct {
	docs map[string]string
	err  error
}

func (l *stubLoader) Load(_ context.Context, url string) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return l.docs[url], nil
}

const brandDoc = "Our brand positioning is premium and aspirational. " +
	"Our pricing strategy targets the mid market segment. " +
	"We invest heavily in sustainability and circular production."

func TestIndex_QueryBeforeIngestFails(t *testing.T) {
	ix := NewIndex(stubEmbedder{}, &stubLoader{}, 1000, 200, 3)

	_, err := ix.Query(context.Background(), "positioning", 3)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestIndex_IngestAndQuery(t *testing.T) {
	loader := &stubLoader{docs: map[string]string{"https://brand.example/about": brandDoc}}
	ix := NewIndex(stubEmbedder{}, loader, 60, 0, 3)

	require.NoError(t, ix.Ingest(context.Background(), "https://brand.example/about"))
	require.Greater(t, ix.Len(), 1, "doc should split into multiple chunks")

	got, err := ix.Query(context.Background(), "positioning", 1)
	require.NoError(t, err)
	assert.Contains(t, got, "positioning")
	assert.NotContains(t, got, "sustainability")
}

func TestIndex_QueryConcatenatesInRankOrder(t *testing.T) {
	loader := &stubLoader{docs: map[string]string{"u": brandDoc}}
	ix := NewIndex(stubEmbedder{}, loader, 60, 0, 3)
	require.NoError(t, ix.Ingest(context.Background(), "u"))

	got, err := ix.Query(context.Background(), "pricing", 3)
	require.NoError(t, err)

	parts := strings.Split(got, "\n\n")
	assert.LessOrEqual(t, len(parts), 3)
	assert.Contains(t, parts[0], "pricing", "best match ranks first")
	assert.LessOrEqual(t, len(got), len(brandDoc)+len(parts)*2)
}

func TestIndex_TopKBoundedByChunkCount(t *testing.T) {
	loader := &stubLoader{docs: map[string]string{"u": "one small document"}}
	ix := NewIndex(stubEmbedder{}, loader, 1000, 200, 3)
	require.NoError(t, ix.Ingest(context.Background(), "u"))
	require.Equal(t, 1, ix.Len())

	got, err := ix.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Equal(t, "one small document", got)
}

func TestIndex_ReingestReplacesWholesale(t *testing.T) {
	loader := &stubLoader{docs: map[string]string{
		"a": "first brand pricing document",
		"b": "second brand sustainability document",
	}}
	ix := NewIndex(stubEmbedder{}, loader, 1000, 200, 3)

	require.NoError(t, ix.Ingest(context.Background(), "a"))
	got, err := ix.Query(context.Background(), "pricing", 3)
	require.NoError(t, err)
	assert.Contains(t, got, "first")

	require.NoError(t, ix.Ingest(context.Background(), "b"))
	got, err = ix.Query(context.Background(), "sustainability", 3)
	require.NoError(t, err)
	assert.Contains(t, got, "second")
	assert.NotContains(t, got, "first")
}

func TestIndex_FailedIngestKeepsPriorGeneration(t *testing.T) {
	loader := &stubLoader{docs: map[string]string{"a": "stable pricing content"}}
	ix := NewIndex(stubEmbedder{}, loader, 1000, 200, 3)
	require.NoError(t, ix.Ingest(context.Background(), "a"))

	loader.err = errors.New("fetch failed")
	assert.Error(t, ix.Ingest(context.Background(), "a"))

	got, err := ix.Query(context.Background(), "pricing", 3)
	require.NoError(t, err)
	assert.Contains(t, got, "stable")
}

func TestIndex_EmptyDocumentRejected(t *testing.T) {
	loader := &stubLoader{docs: map[string]string{"empty": "   "}}
	ix := NewIndex(stubEmbedder{}, loader, 1000, 200, 3)

	assert.Error(t, ix.Ingest(context.Background(), "empty"))
	_, err := ix.Query(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestIndex_ConcurrentQueriesDuringIngest(t *testing.T) {
	loader := &stubLoader{docs: map[string]string{
		"a": "generation one pricing",
		"b": "generation two pricing",
	}}
	ix := NewIndex(stubEmbedder{}, loader, 1000, 200, 3)
	require.NoError(t, ix.Ingest(context.Background(), "a"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			got, err := ix.Query(context.Background(), "pricing", 3)
			assert.NoError(t, err)
			// Either generation is fine; a mix is not.
			assert.True(t,
				strings.Contains(got, "generation one") != strings.Contains(got, "generation two"),
				"query saw a partial generation: %q", got)
		}
	}()

	for i := 0; i < 10; i++ {
		url := "a"
		if i%2 == 0 {
			url = "b"
		}
		require.NoError(t, ix.Ingest(context.Background(), url))
	}
	<-done
}
