package analysis

import (
	"context"

	"github.com/stretchr/testify/mock"

	"brandlens/internal/agent"
	"brandlens/internal/session"
	"brandlens/internal/stats"
)

type MockAgent struct{ mock.Mock }

func (m *MockAgent) Complete(ctx context.Context, req agent.Request) (*agent.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*agent.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockVideoSource struct{ mock.Mock }

func (m *MockVideoSource) Resolve(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}

func (m *MockVideoSource) FetchComments(ctx context.Context, videoID string) ([]string, error) {
	args := m.Called(ctx, videoID)
	if c := args.Get(0); c != nil {
		return c.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVideoSource) FetchStats(ctx context.Context, videoID string) (*stats.Counters, error) {
	args := m.Called(ctx, videoID)
	if c := args.Get(0); c != nil {
		return c.(*stats.Counters), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTranscriptSource struct{ mock.Mock }

func (m *MockTranscriptSource) FetchChunks(ctx context.Context, videoID string) ([]string, error) {
	args := m.Called(ctx, videoID)
	if c := args.Get(0); c != nil {
		return c.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockGrounding struct{ mock.Mock }

func (m *MockGrounding) Ingest(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockGrounding) Retrieve(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

type MockSessionWriter struct{ mock.Mock }

func (m *MockSessionWriter) Create(ctx context.Context, meta session.Meta, insights string, data session.Snapshot) session.CreateResult {
	args := m.Called(ctx, meta, insights, data)
	return args.Get(0).(session.CreateResult)
}

type MockOrchestrator struct{ mock.Mock }

func (m *MockOrchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*Result), args.Error(1)
	}
	return nil, args.Error(1)
}

// reqWithSystem matches an agent request on its system prompt, which is
// what distinguishes the specialist calls from each other.
func reqWithSystem(system string) interface{} {
	return mock.MatchedBy(func(r agent.Request) bool { return r.System == system })
}
