// Package assistant drives the OpenAI Assistants conversation protocol.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	assistantName = "Ceddy Golf Assistant"

	instructions = `You are Ceddy, an AI golf coach helping players during games.
Suggest golf clubs, analyze environmental conditions, and give concise golf tips.
Respond only when the player says "Hey Ceddy."`

	// NoAnswerReply is returned as a valid reply when a run completes
	// without producing an assistant message.
	NoAnswerReply = "I'm sorry, I couldn't process your request."
)

// ErrRunTimeout reports that a run stayed queued or in progress past the
// polling deadline. Distinct from other provider failures so callers can
// log it separately; the outward fail-soft contract is the same.
var ErrRunTimeout = errors.New("assistant: run polling deadline exceeded")

// Client executes one assistant conversation per call: ensure an
// assistant profile, open a fresh thread, post the query, run, poll to
// completion and extract the reply. Nothing is cached across calls.
type Client struct {
	client      openai.Client
	assistantID string

	// PollInterval and PollTimeout bound the run-status polling loop.
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// New creates an assistant client. assistantID may be empty, in which
// case a new assistant profile is created on each call.
func New(apiKey, assistantID string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{
		client:       openai.NewClient(opts...),
		assistantID:  assistantID,
		PollInterval: 500 * time.Millisecond,
		PollTimeout:  60 * time.Second,
	}
}

func (c *Client) ensureAssistant(ctx context.Context) (string, error) {
	if c.assistantID != "" {
		return c.assistantID, nil
	}
	asst, err := c.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        openai.ChatModelGPT4TurboPreview,
		Name:         openai.String(assistantName),
		Instructions: openai.String(instructions),
		Tools: []openai.AssistantToolUnionParam{
			{
				OfFunction: &openai.FunctionToolParam{
					Function: shared.FunctionDefinitionParam{
						Name:        "suggest_club",
						Description: openai.String("Suggest a golf club based on distance"),
						Parameters: shared.FunctionParameters{
							"type": "object",
							"properties": map[string]any{
								"distance": map[string]any{
									"type":        "number",
									"description": "Distance in yards",
								},
							},
							"required": []string{"distance"},
						},
					},
				},
			},
			{
				OfFunction: &openai.FunctionToolParam{
					Function: shared.FunctionDefinitionParam{
						Name:        "check_wind_conditions",
						Description: openai.String("Check current wind conditions"),
						Parameters: shared.FunctionParameters{
							"type":       "object",
							"properties": map[string]any{},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: create profile: %w", err)
	}
	return asst.ID, nil
}

// Respond sends the query through a fresh thread and returns the first
// assistant-authored reply.
func (c *Client) Respond(ctx context.Context, query string) (string, error) {
	assistantID, err := c.ensureAssistant(ctx)
	if err != nil {
		return "", err
	}

	thread, err := c.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("assistant: create thread: %w", err)
	}

	_, err = c.client.Beta.Threads.Messages.New(ctx, thread.ID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(query),
		},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: post message: %w", err)
	}

	run, err := c.client.Beta.Threads.Runs.New(ctx, thread.ID, openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("assistant: start run: %w", err)
	}

	deadline := time.Now().Add(c.PollTimeout)
	for run.Status == openai.RunStatusQueued || run.Status == openai.RunStatusInProgress {
		if time.Now().After(deadline) {
			return "", ErrRunTimeout
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.PollInterval):
		}
		run, err = c.client.Beta.Threads.Runs.Get(ctx, thread.ID, run.ID)
		if err != nil {
			return "", fmt.Errorf("assistant: poll run: %w", err)
		}
	}

	msgs, err := c.client.Beta.Threads.Messages.List(ctx, thread.ID, openai.BetaThreadMessageListParams{})
	if err != nil {
		return "", fmt.Errorf("assistant: list messages: %w", err)
	}
	for _, m := range msgs.Data {
		if m.Role != "assistant" {
			continue
		}
		for _, block := range m.Content {
			if block.Text.Value != "" {
				return block.Text.Value, nil
			}
		}
	}
	return NoAnswerReply, nil
}
