// Package chat answers follow-up questions against a cached analysis
// session, re-running evaluation whenever the answer grounded itself or
// drafted platform-ready content.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"brandlens/features/analysis"
	"brandlens/internal/agent"
	"brandlens/internal/session"
)

// ErrSessionNotFound covers both an expired/unknown session and a store
// read failure; in either case there is no session to chat against.
var ErrSessionNotFound = errors.New("no session available")

// KindDraft tags a response the user explicitly asked to have written
// for posting; drafts are always re-evaluated before delivery.
const KindDraft = "draft"

const chatSystemPrompt = `You answer follow-up questions about a previously analyzed YouTube video.

You have access to a retrieve tool for additional brand context. Use it only when the provided analysis is insufficient.

Previous analysis is available in the context.

Respond with JSON:
{
  "response": "your answer or draft content",
  "usedTool": true/false,
  "responseType": "answer" or "draft"
}

RULES:
- Use responseType: "answer" for questions/requests for information
- Use responseType: "draft" ONLY if user explicitly asks you to write/create/draft content (tweet, comment, reply)

For "answer":
- MAXIMUM 2-3 sentences total
- Synthesize the key point, don't list everything
- End with a follow-up question when appropriate
- Set usedTool: true only if you called retrieve

For "draft":
- Format ready to post with appropriate tone and style
- Set usedTool: true only if you called retrieve`

type SessionStore interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	AppendTurn(ctx context.Context, id, userText, assistantText string) error
}

type Agent interface {
	Complete(ctx context.Context, req agent.Request) (*agent.Response, error)
}

type Evaluator interface {
	Review(ctx context.Context, brandURL, candidate, userQuery string) (*analysis.EvaluationResult, error)
}

type Service struct {
	store     SessionStore
	agent     Agent
	retriever agent.Retriever
	evaluator Evaluator
}

func NewService(store SessionStore, a Agent, retriever agent.Retriever, evaluator Evaluator) *Service {
	return &Service{store: store, agent: a, retriever: retriever, evaluator: evaluator}
}

// Answer runs one chat turn. Exactly one user/assistant pair is appended
// to the session log; the assistant side is always the final text, never
// a pre-evaluation draft.
func (s *Service) Answer(ctx context.Context, sessionID, userMessage string) (string, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.ErrorContext(ctx, "session read failed", "error", err, "session_id", sessionID)
		}
		return "", ErrSessionNotFound
	}

	resp, err := s.agent.Complete(ctx, agent.Request{
		System:    chatSystemPrompt,
		Prompt:    buildPrompt(sess, userMessage),
		Shape:     agent.ShapeTagged,
		Retriever: s.retriever,
		MaxTokens: 150,
	})
	if err != nil {
		return "", fmt.Errorf("chat agent: %w", err)
	}

	final := resp.Text
	if resp.UsedTool || resp.Kind == KindDraft {
		evaluation, err := s.evaluator.Review(ctx, sess.Meta.BrandURL, resp.Text, userMessage)
		if err != nil {
			return "", fmt.Errorf("chat evaluation: %w", err)
		}
		final = evaluation.Output
	}

	// The turn is recorded best-effort: a log append that fails must not
	// cost the user their answer.
	if err := s.store.AppendTurn(ctx, sessionID, userMessage, final); err != nil {
		slog.WarnContext(ctx, "failed to append chat turn", "error", err, "session_id", sessionID)
	}

	return final, nil
}

func buildPrompt(sess *session.Session, userMessage string) string {
	snapshotJSON, _ := json.Marshal(sess.Data)

	history := make([]string, 0, len(sess.Chat))
	for _, turn := range sess.Chat {
		history = append(history, fmt.Sprintf("[%s]: %s", turn.Role, turn.Content))
	}

	return fmt.Sprintf(`Context:
Video data: %s
Previous analysis: %s
Chat history: %s
Brand: %s

Question: %s`,
		snapshotJSON,
		sess.Insights,
		strings.Join(history, "\n"),
		sess.Meta.BrandURL,
		userMessage,
	)
}
