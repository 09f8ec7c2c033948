package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"brandlens/internal/agent"
	"brandlens/internal/session"
	"brandlens/internal/stats"
)

// SpecialistPipeline is the parallel multi-specialist variant: one small
// non-tool call per concern plus a synthesis call, instead of a single
// large tool-using call. It is the default orchestrator.
type SpecialistPipeline struct {
	acquirer
	agent     Agent
	knowledge Grounding
	store     SessionWriter
	evaluator *Evaluator

	// commentLimit caps how many of the relevance-ranked comments reach
	// the comment specialist.
	commentLimit int
}

func NewSpecialistPipeline(a Agent, video VideoSource, transcripts TranscriptSource, knowledge Grounding, store SessionWriter, commentLimit int) *SpecialistPipeline {
	if commentLimit <= 0 {
		commentLimit = 50
	}
	return &SpecialistPipeline{
		acquirer:     acquirer{video: video, transcripts: transcripts},
		agent:        a,
		knowledge:    knowledge,
		store:        store,
		evaluator:    NewEvaluator(a),
		commentLimit: commentLimit,
	}
}

func (p *SpecialistPipeline) Run(ctx context.Context, req Request) (*Result, error) {
	videoID, err := p.video.Resolve(ctx, req.VideoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	// Stage 1: acquire.
	raw := p.acquire(ctx, videoID)
	if !raw.complete() {
		return nil, ErrInsufficientData
	}

	// Stage 2: specialists fan out; the stats summary is pure and is
	// computed on this goroutine while the agent branches are in flight.
	var (
		wg             sync.WaitGroup
		videoSummary   string
		videoErr       error
		commentSummary string
		commentErr     error
		profile        BrandProfile
		profileErr     error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		videoSummary, videoErr = p.summarizeVideo(ctx, raw.Transcript)
	}()
	go func() {
		defer wg.Done()
		commentSummary, commentErr = p.summarizeComments(ctx, topComments(raw.Comments, p.commentLimit))
	}()
	go func() {
		defer wg.Done()
		profile, profileErr = p.profileBrand(ctx, req.BrandURL)
	}()
	statsSummary := stats.Summarize(*raw.Stats)
	wg.Wait()

	for _, stageErr := range []error{videoErr, commentErr, profileErr} {
		if stageErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, stageErr)
		}
	}

	summaries := StageSummaries{
		Video:    videoSummary,
		Comments: commentSummary,
		Stats:    statsSummary.String(),
		Brand:    profile,
	}

	// Stage 3: synthesize. Grounding already happened in stage 2, so no
	// tool access here.
	synthesis, err := p.synthesize(ctx, summaries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Stage 4: evaluate, unconditionally.
	evaluation, err := p.evaluator.Review(ctx, req.BrandURL, synthesis.Narrative, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Stage 5: persist.
	return persist(ctx, p.store, req, videoID, evaluation.Output, raw), nil
}

func (p *SpecialistPipeline) summarizeVideo(ctx context.Context, chunks []string) (string, error) {
	resp, err := p.agent.Complete(ctx, agent.Request{
		System: videoSummarySystemPrompt,
		Prompt: "Summarize this video transcript:\n\n" + strings.Join(chunks, "\n"),
		Shape:  agent.ShapeSummary,
	})
	if err != nil {
		return "", fmt.Errorf("video summary: %w", err)
	}
	return resp.Text, nil
}

func (p *SpecialistPipeline) summarizeComments(ctx context.Context, comments []string) (string, error) {
	resp, err := p.agent.Complete(ctx, agent.Request{
		System: commentSummarySystemPrompt,
		Prompt: fmt.Sprintf("Summarize these %d comments:\n\n%s", len(comments), strings.Join(comments, "\n")),
		Shape:  agent.ShapeSummary,
	})
	if err != nil {
		return "", fmt.Errorf("comment summary: %w", err)
	}
	return resp.Text, nil
}

func (p *SpecialistPipeline) profileBrand(ctx context.Context, brandURL string) (BrandProfile, error) {
	resp, err := p.agent.Complete(ctx, agent.Request{
		System:    brandProfileSystemPrompt,
		Prompt:    "Extract brand profile for: " + brandURL,
		Shape:     agent.ShapeProfile,
		Retriever: p.knowledge,
	})
	if err != nil {
		return BrandProfile{}, fmt.Errorf("brand profile: %w", err)
	}
	return BrandProfile{Name: resp.BrandName, TopValues: resp.TopValues, Tone: resp.BrandTone}, nil
}

func (p *SpecialistPipeline) synthesize(ctx context.Context, s StageSummaries) (*SynthesisResult, error) {
	prompt := fmt.Sprintf(`Brand Profile:
%s

Video Summary:
%s

Engagement Metrics:
%s

Comment Summary:
%s

Synthesize top 10 ranked insights with brand relevance.`, s.Brand, s.Video, s.Stats, s.Comments)

	resp, err := p.agent.Complete(ctx, agent.Request{
		System: synthesizerSystemPrompt,
		Prompt: prompt,
		Shape:  agent.ShapeTagged,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}
	return &SynthesisResult{Narrative: resp.Text, Kind: resp.Kind}, nil
}

// persist writes the finalized session. Store failures were already
// swallowed below this layer; the degraded flag is all that surfaces.
func persist(ctx context.Context, store SessionWriter, req Request, videoID, insights string, raw *RawVideoData) *Result {
	now := time.Now().UTC()
	created := store.Create(ctx,
		session.Meta{BrandURL: req.BrandURL, VideoURL: req.VideoURL, VideoID: videoID, CreatedAt: now},
		insights,
		session.Snapshot{
			TranscriptChunks: raw.Transcript,
			Comments:         raw.Comments,
			Stats:            *raw.Stats,
			CapturedAt:       now,
		},
	)
	if !created.Cached {
		slog.WarnContext(ctx, "session not cached, follow-up chat will miss", "session_id", created.ID)
	}
	return &Result{SessionID: created.ID, Insights: insights, Degraded: !created.Cached}
}

func topComments(comments []string, limit int) []string {
	if len(comments) > limit {
		return comments[:limit]
	}
	return comments
}
