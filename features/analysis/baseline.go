package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"brandlens/internal/agent"
)

// BaselinePipeline is the sequential variant: acquisition, then one
// broad tool-using analyst call over everything, then evaluation. It
// exists as a correctness and latency baseline for the specialist
// pipeline and produces a result of the same shape.
type BaselinePipeline struct {
	acquirer
	agent     Agent
	knowledge Grounding
	store     SessionWriter
	evaluator *Evaluator
}

func NewBaselinePipeline(a Agent, video VideoSource, transcripts TranscriptSource, knowledge Grounding, store SessionWriter) *BaselinePipeline {
	return &BaselinePipeline{
		acquirer:  acquirer{video: video, transcripts: transcripts},
		agent:     a,
		knowledge: knowledge,
		store:     store,
		evaluator: NewEvaluator(a),
	}
}

func (p *BaselinePipeline) Run(ctx context.Context, req Request) (*Result, error) {
	videoID, err := p.video.Resolve(ctx, req.VideoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	raw := p.acquire(ctx, videoID)
	if !raw.complete() {
		return nil, ErrInsufficientData
	}

	analysis, err := p.analyze(ctx, req.BrandURL, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	evaluation, err := p.evaluator.Review(ctx, req.BrandURL, analysis, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return persist(ctx, p.store, req, videoID, evaluation.Output, raw), nil
}

func (p *BaselinePipeline) analyze(ctx context.Context, brandURL string, raw *RawVideoData) (string, error) {
	statsJSON, err := json.Marshal(raw.Stats)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this video for %s relevance.

Transcript: %s

Comments: %s

Stats: %s

Determine brand relevance, sentiment, and key insights.`,
		brandURL,
		strings.Join(raw.Transcript, "\n"),
		strings.Join(raw.Comments, "\n"),
		statsJSON,
	)

	resp, err := p.agent.Complete(ctx, agent.Request{
		System:    analystSystemPrompt,
		Prompt:    prompt,
		Shape:     agent.ShapeTagged,
		Retriever: p.knowledge,
	})
	if err != nil {
		return "", fmt.Errorf("analyst: %w", err)
	}
	return resp.Text, nil
}
