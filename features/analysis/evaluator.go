package analysis

import (
	"context"
	"fmt"

	"brandlens/internal/agent"
)

// Evaluator is the final review stage. It runs unconditionally after
// every initial analysis, and again on chat answers that grounded
// themselves or drafted platform content. The approved flag it returns
// is informational; output is delivered either way.
type Evaluator struct {
	agent Agent
}

func NewEvaluator(a Agent) *Evaluator {
	return &Evaluator{agent: a}
}

// Review checks the candidate text for accuracy, tone and brand
// alignment and returns the finalized version. userQuery is empty for
// the initial analysis.
func (e *Evaluator) Review(ctx context.Context, brandURL, candidate, userQuery string) (*EvaluationResult, error) {
	query := userQuery
	if query == "" {
		query = "N/A - this is an initial analysis"
	}

	prompt := fmt.Sprintf(`Review this response for %s, based on user query, if available.

User query: %s.

Response: %s

Check for accuracy, completeness, brand alignment, and tone.`, brandURL, query, candidate)

	resp, err := e.agent.Complete(ctx, agent.Request{
		System: evaluatorSystemPrompt,
		Prompt: prompt,
		Shape:  agent.ShapeReview,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}

	return &EvaluationResult{Approved: resp.Approved, Output: resp.Text}, nil
}
