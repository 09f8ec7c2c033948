// Package openai backs the agent contract with OpenAI chat completions.
// Structured replies are requested as JSON objects; grounding happens
// through a "retrieve" function tool when the request carries a
// retriever.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"brandlens/internal/agent"
)

// maxToolRounds bounds the retrieval loop so a model that keeps calling
// the tool cannot stall a stage forever.
const maxToolRounds = 4

var ErrEmptyCompletion = errors.New("agent returned no structured result")

var retrieveTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        "retrieve",
		Description: "retrieve brand info related to a query",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {"query": {"type": "string"}},
			"required": ["query"]
		}`),
	},
}

type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

func (c *Client) Complete(ctx context.Context, req agent.Request) (*agent.Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.Retriever != nil {
		chatReq.Tools = []openai.Tool{retrieveTool}
	}

	usedTool := false
	for round := 0; round <= maxToolRounds; round++ {
		resp, err := c.api.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, ErrEmptyCompletion
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) > 0 && req.Retriever != nil {
			usedTool = true
			chatReq.Messages = append(chatReq.Messages, msg)
			for _, tc := range msg.ToolCalls {
				result, err := c.runRetrieve(ctx, req.Retriever, tc)
				if err != nil {
					return nil, err
				}
				chatReq.Messages = append(chatReq.Messages, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    result,
					ToolCallID: tc.ID,
				})
			}
			continue
		}

		if strings.TrimSpace(msg.Content) == "" {
			return nil, ErrEmptyCompletion
		}
		return parseResponse(req.Shape, msg.Content, usedTool)
	}

	return nil, fmt.Errorf("retrieval loop exceeded %d rounds", maxToolRounds)
}

func (c *Client) runRetrieve(ctx context.Context, r agent.Retriever, tc openai.ToolCall) (string, error) {
	if tc.Function.Name != retrieveTool.Function.Name {
		return "", fmt.Errorf("agent called unknown tool %q", tc.Function.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		return "", fmt.Errorf("decode retrieve arguments: %w", err)
	}

	slog.DebugContext(ctx, "agent grounding", "query", args.Query)
	result, err := r.Retrieve(ctx, args.Query)
	if err != nil {
		return "", fmt.Errorf("retrieve %q: %w", args.Query, err)
	}
	return result, nil
}

// parseResponse extracts the outermost JSON object from the completion
// and maps it onto the requested shape. Models occasionally wrap JSON in
// prose despite the response format, hence the substring extraction.
func parseResponse(shape agent.Shape, content string, usedTool bool) (*agent.Response, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in completion", ErrEmptyCompletion)
	}
	raw := []byte(content[start : end+1])

	switch shape {
	case agent.ShapeSummary:
		var body struct {
			Summary string `json:"summary"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decode summary response: %w", err)
		}
		if body.Summary == "" {
			return nil, ErrEmptyCompletion
		}
		return &agent.Response{Text: body.Summary, UsedTool: usedTool}, nil

	case agent.ShapeTagged:
		var body struct {
			Response     string `json:"response"`
			UsedTool     bool   `json:"usedTool"`
			ResponseType string `json:"responseType"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decode tagged response: %w", err)
		}
		if body.Response == "" {
			return nil, ErrEmptyCompletion
		}
		return &agent.Response{
			Text:     body.Response,
			UsedTool: usedTool || body.UsedTool,
			Kind:     body.ResponseType,
		}, nil

	case agent.ShapeProfile:
		var body struct {
			BrandName string   `json:"brandName"`
			TopValues []string `json:"topValues"`
			BrandTone string   `json:"brandTone"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decode profile response: %w", err)
		}
		if body.BrandName == "" {
			return nil, ErrEmptyCompletion
		}
		if len(body.TopValues) > 3 {
			body.TopValues = body.TopValues[:3]
		}
		return &agent.Response{
			Text:      body.BrandName,
			UsedTool:  usedTool,
			BrandName: body.BrandName,
			TopValues: body.TopValues,
			BrandTone: body.BrandTone,
		}, nil

	case agent.ShapeReview:
		var body struct {
			Approved bool   `json:"approved"`
			Output   string `json:"output"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decode review response: %w", err)
		}
		if body.Output == "" {
			return nil, ErrEmptyCompletion
		}
		return &agent.Response{Text: body.Output, UsedTool: usedTool, Approved: body.Approved}, nil

	default:
		return nil, fmt.Errorf("unknown response shape %q", shape)
	}
}
