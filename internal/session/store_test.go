package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandlens/internal/stats"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, 24*time.Hour, time.Hour), mr
}

func testMeta() Meta {
	return Meta{
		BrandURL:  "https://brand.example/about",
		VideoURL:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoID:   "dQw4w9WgXcQ",
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func testSnapshot() Snapshot {
	return Snapshot{
		TranscriptChunks: []string{"chunk one", "chunk two"},
		Comments:         []string{"great video", "not a fan"},
		Stats:            stats.Counters{Views: "1000", Likes: "100", Comments: "2"},
		CapturedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_CreateThenGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created := store.Create(ctx, testMeta(), "final insights", testSnapshot())
	require.NotEmpty(t, created.ID)
	assert.True(t, created.Cached)

	sess, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, sess.ID)
	assert.Equal(t, testMeta(), sess.Meta)
	assert.Equal(t, "final insights", sess.Insights)
	assert.Equal(t, testSnapshot(), sess.Data)
	assert.Empty(t, sess.Chat, "fresh session has an empty chat log")
	assert.NotNil(t, sess.Chat)
}

func TestStore_GetUnknownID(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "never-created")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ExpiryClasses(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created := store.Create(ctx, testMeta(), "insights", testSnapshot())

	// Inside the snapshot window everything is readable.
	mr.FastForward(30 * time.Minute)
	_, err := store.Get(ctx, created.ID)
	require.NoError(t, err)

	// Past the short window the snapshot lapses and the whole session
	// reads as gone, even though meta and insights still exist.
	mr.FastForward(31 * time.Minute)
	assert.True(t, mr.Exists("session:"+created.ID+":meta"))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Past the long window nothing is left.
	mr.FastForward(24 * time.Hour)
	assert.False(t, mr.Exists("session:"+created.ID+":meta"))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CreateDegradedOnWriteFailure(t *testing.T) {
	store, mr := newTestStore(t)
	mr.SetError("cache down")

	created := store.Create(context.Background(), testMeta(), "insights", testSnapshot())

	assert.NotEmpty(t, created.ID, "id is returned even when the write fails")
	assert.False(t, created.Cached)

	mr.SetError("")
	_, err := store.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "a degraded session was never cached")
}

func TestStore_AppendTurnMonotonic(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created := store.Create(ctx, testMeta(), "insights", testSnapshot())

	const turns = 3
	for i := 0; i < turns; i++ {
		err := store.AppendTurn(ctx, created.ID,
			fmt.Sprintf("question %d", i),
			fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}

	sess, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, sess.Chat, 2*turns)

	for i := 0; i < turns; i++ {
		assert.Equal(t, Turn{Role: RoleUser, Content: fmt.Sprintf("question %d", i)}, sess.Chat[2*i])
		assert.Equal(t, Turn{Role: RoleAssistant, Content: fmt.Sprintf("answer %d", i)}, sess.Chat[2*i+1])
	}
}

func TestStore_AppendTurnRejectsIncompletePair(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created := store.Create(ctx, testMeta(), "insights", testSnapshot())

	assert.ErrorIs(t, store.AppendTurn(ctx, created.ID, "", "answer"), ErrIncompleteTurn)
	assert.ErrorIs(t, store.AppendTurn(ctx, created.ID, "question", ""), ErrIncompleteTurn)

	sess, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, sess.Chat, "rejected turns must not write")
}

func TestStore_ChatLogExpiresWithMetaWindow(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created := store.Create(ctx, testMeta(), "insights", testSnapshot())
	require.NoError(t, store.AppendTurn(ctx, created.ID, "q", "a"))

	ttl := mr.TTL("session:" + created.ID + ":chat")
	assert.Equal(t, 24*time.Hour, ttl)
}
