// Package agent defines the value types exchanged with the reasoning
// backend. The backend itself is opaque to the orchestrators: a request
// carries prompts and an optional retrieval tool, a response carries the
// structured reply.
package agent

import "context"

// Retriever is the grounding tool exposed to a tool-enabled agent call.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Shape tells the backend which structured reply to ask the model for.
type Shape string

const (
	// ShapeSummary expects {"summary": "..."}.
	ShapeSummary Shape = "summary"
	// ShapeTagged expects {"response": "...", "usedTool": bool, "responseType": "..."}.
	ShapeTagged Shape = "tagged"
	// ShapeProfile expects {"brandName": "...", "topValues": [...], "brandTone": "..."}.
	ShapeProfile Shape = "profile"
	// ShapeReview expects {"approved": bool, "output": "..."}.
	ShapeReview Shape = "review"
)

type Request struct {
	System string
	Prompt string
	Shape  Shape

	// Retriever, when non-nil, is declared to the model as a "retrieve"
	// function tool. Calls without one cannot ground.
	Retriever Retriever

	MaxTokens int
}

// Response is the structured reply. Text carries the user-facing field of
// the requested shape; the remaining fields are populated only for shapes
// that define them.
type Response struct {
	Text     string
	UsedTool bool
	Kind     string

	// Profile fields (ShapeProfile only).
	BrandName string
	TopValues []string
	BrandTone string

	// Review fields (ShapeReview only).
	Approved bool
}

type Runner interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
