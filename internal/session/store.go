// Package session is the tiered ephemeral cache behind a completed
// analysis. Meta and insights live for the long window, the raw data
// snapshot only for the short one; once the snapshot lapses the session
// reads as gone, so follow-up chat never outlives its grounding context.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"brandlens/internal/stats"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrIncompleteTurn = errors.New("turn requires both user and assistant text")
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Meta struct {
	BrandURL  string    `json:"brandUrl"`
	VideoURL  string    `json:"videoUrl"`
	VideoID   string    `json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is the raw acquisition data kept around for near-term
// follow-up context.
type Snapshot struct {
	TranscriptChunks []string       `json:"transcriptChunks"`
	Comments         []string       `json:"comments"`
	Stats            stats.Counters `json:"stats"`
	CapturedAt       time.Time      `json:"capturedAt"`
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Session struct {
	ID       string
	Meta     Meta
	Insights string
	Data     Snapshot
	Chat     []Turn
}

// CreateResult distinguishes "created" from "created but uncached":
// a failed write still yields an id, but Cached reports the degradation.
type CreateResult struct {
	ID     string
	Cached bool
}

type Store struct {
	rdb     redis.Cmdable
	metaTTL time.Duration
	dataTTL time.Duration
}

func NewStore(rdb redis.Cmdable, metaTTL, dataTTL time.Duration) *Store {
	if metaTTL <= 0 {
		metaTTL = 24 * time.Hour
	}
	if dataTTL <= 0 {
		dataTTL = time.Hour
	}
	return &Store{rdb: rdb, metaTTL: metaTTL, dataTTL: dataTTL}
}

func metaKey(id string) string     { return "session:" + id + ":meta" }
func insightsKey(id string) string { return "session:" + id + ":insights" }
func dataKey(id string) string     { return "session:" + id + ":data" }
func chatKey(id string) string     { return "session:" + id + ":chat" }

// Create persists a completed analysis under a fresh id with one atomic
// batched write. Cache errors are logged and swallowed: the caller still
// gets an id, flagged as uncached.
func (s *Store) Create(ctx context.Context, meta Meta, insights string, data Snapshot) CreateResult {
	id := uuid.NewString()

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode session meta", "error", err, "session_id", id)
		return CreateResult{ID: id}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode session snapshot", "error", err, "session_id", id)
		return CreateResult{ID: id}
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, metaKey(id), metaJSON, s.metaTTL)
	pipe.Set(ctx, insightsKey(id), insights, s.metaTTL)
	pipe.Set(ctx, dataKey(id), dataJSON, s.dataTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to cache session", "error", err, "session_id", id)
		return CreateResult{ID: id}
	}

	return CreateResult{ID: id, Cached: true}
}

// Get reads meta, insights, snapshot and chat log in one batched read.
// A session missing any of the first three is invalid and reads as not
// found; a missing chat log reads as empty.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	pipe := s.rdb.Pipeline()
	metaCmd := pipe.Get(ctx, metaKey(id))
	insightsCmd := pipe.Get(ctx, insightsKey(id))
	dataCmd := pipe.Get(ctx, dataKey(id))
	chatCmd := pipe.LRange(ctx, chatKey(id), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	for _, cmd := range []*redis.StringCmd{metaCmd, insightsCmd, dataCmd} {
		if errors.Is(cmd.Err(), redis.Nil) {
			return nil, ErrNotFound
		}
		if cmd.Err() != nil {
			return nil, fmt.Errorf("read session %s: %w", id, cmd.Err())
		}
	}

	sess := &Session{ID: id, Insights: insightsCmd.Val(), Chat: []Turn{}}
	if err := json.Unmarshal([]byte(metaCmd.Val()), &sess.Meta); err != nil {
		return nil, fmt.Errorf("decode session %s meta: %w", id, err)
	}
	if err := json.Unmarshal([]byte(dataCmd.Val()), &sess.Data); err != nil {
		return nil, fmt.Errorf("decode session %s snapshot: %w", id, err)
	}

	for _, raw := range chatCmd.Val() {
		var t Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decode session %s chat turn: %w", id, err)
		}
		sess.Chat = append(sess.Chat, t)
	}

	return sess, nil
}

// AppendTurn appends the user/assistant pair to the session chat log.
// Both entries go out in a single RPUSH, so the pair stays contiguous
// even under concurrent turns. The log expires with the meta window,
// refreshed on every append.
func (s *Store) AppendTurn(ctx context.Context, id, userText, assistantText string) error {
	if userText == "" || assistantText == "" {
		return ErrIncompleteTurn
	}

	userJSON, err := json.Marshal(Turn{Role: RoleUser, Content: userText})
	if err != nil {
		return fmt.Errorf("encode user turn: %w", err)
	}
	assistantJSON, err := json.Marshal(Turn{Role: RoleAssistant, Content: assistantText})
	if err != nil {
		return fmt.Errorf("encode assistant turn: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, chatKey(id), userJSON, assistantJSON)
	pipe.Expire(ctx, chatKey(id), s.metaTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append turn to session %s: %w", id, err)
	}
	return nil
}
