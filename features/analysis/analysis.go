// Package analysis runs the brand relevance pipeline: acquire raw video
// data, summarize it, synthesize a narrative, evaluate it, persist the
// session. Two orchestration variants implement the same contract: the
// parallel specialist pipeline (default) and the sequential baseline.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brandlens/internal/agent"
	"brandlens/internal/session"
	"brandlens/internal/stats"
)

var (
	// ErrInvalidReference marks a malformed or non-existent video or
	// brand reference. No retry will help.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInsufficientData marks a video where one or more required
	// acquisition results came back absent.
	ErrInsufficientData = errors.New("insufficient video data")
	// ErrInternal marks an agent stage that yielded no usable result.
	ErrInternal = errors.New("internal pipeline failure")
)

type Request struct {
	VideoURL string
	BrandURL string
}

// RawVideoData is the stage-1 join point. A nil field means the branch
// produced nothing; empty non-nil slices are valid data.
type RawVideoData struct {
	Transcript []string
	Comments   []string
	Stats      *stats.Counters
}

func (d *RawVideoData) complete() bool {
	return d.Transcript != nil && d.Comments != nil && d.Stats != nil
}

type BrandProfile struct {
	Name      string
	TopValues []string
	Tone      string
}

func (p BrandProfile) String() string {
	return fmt.Sprintf("name=%s values=[%s] tone=%s", p.Name, strings.Join(p.TopValues, ", "), p.Tone)
}

// StageSummaries is the stage-2 join point; all four fields must be
// populated before synthesis starts.
type StageSummaries struct {
	Video    string
	Comments string
	Stats    string
	Brand    BrandProfile
}

type SynthesisResult struct {
	Narrative string
	Kind      string
}

// EvaluationResult is the finalized, user-facing text. Approved is
// informational only and never blocks delivery.
type EvaluationResult struct {
	Approved bool
	Output   string
}

type Result struct {
	SessionID string
	Insights  string
	// Degraded reports that the session write was swallowed: the id is
	// real but later chat turns against it will find nothing.
	Degraded bool
}

// Orchestrator is the pipeline contract both variants implement.
type Orchestrator interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Agent is the opaque reasoning backend.
type Agent interface {
	Complete(ctx context.Context, req agent.Request) (*agent.Response, error)
}

// VideoSource covers the platform metadata calls.
type VideoSource interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
	FetchComments(ctx context.Context, videoID string) ([]string, error)
	FetchStats(ctx context.Context, videoID string) (*stats.Counters, error)
}

type TranscriptSource interface {
	FetchChunks(ctx context.Context, videoID string) ([]string, error)
}

// Grounding is the brand knowledge index as the pipeline sees it.
type Grounding interface {
	Ingest(ctx context.Context, url string) error
	Retrieve(ctx context.Context, query string) (string, error)
}

type SessionWriter interface {
	Create(ctx context.Context, meta session.Meta, insights string, data session.Snapshot) session.CreateResult
}
