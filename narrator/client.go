// Package narrator wraps the Gemini API as the game's story narrator. The
// rest of the application talks to it through a transcript of role-tagged
// messages and gets back prose plus optional structured tool calls.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"

	"dungeon_ai/game"
)

// ErrEmptyReply is returned when the model produced no usable candidate,
// for example when the reply was blocked.
var ErrEmptyReply = errors.New("narrator: empty reply")

// Reply is one narrator completion: free text, structured calls, or both.
type Reply struct {
	Text  string
	Calls []game.ToolCall
}

// Client is a Gemini-backed narrator. Safe for concurrent use: each
// completion configures its own model value.
type Client struct {
	genai       *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	tools       []*genai.Tool
}

// New builds a narrator client. tools may be nil for a narrator without the
// structured action channel.
func New(client *genai.Client, model string, temperature float32, timeout time.Duration, tools []*genai.Tool) *Client {
	return &Client{
		genai:       client,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		tools:       tools,
	}
}

// Complete sends the transcript to the model and returns its reply. The
// first message must be the system prompt; the last message is sent as the
// current turn, everything in between as history. The call is bounded by
// the configured timeout. withTools exposes the game tools to the model;
// the follow-up call after dispatching tool results keeps them hidden so
// the model answers with prose.
func (c *Client) Complete(ctx context.Context, msgs []game.Message, withTools bool) (*Reply, error) {
	if len(msgs) < 2 {
		return nil, fmt.Errorf("narrator: transcript too short (%d messages)", len(msgs))
	}

	m := c.genai.GenerativeModel(c.model)
	m.SetTemperature(c.temperature)
	if msgs[0].Role == game.RoleSystem {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(msgs[0].Content)}}
		msgs = msgs[1:]
	}
	if withTools {
		m.Tools = c.tools
	}

	history := make([]*genai.Content, 0, len(msgs)-1)
	for _, msg := range msgs[:len(msgs)-1] {
		history = append(history, toContent(msg))
	}
	last := toContent(msgs[len(msgs)-1])

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cs := m.StartChat()
	cs.History = history
	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("narrator: completion failed: %w", err)
	}
	return fromResponse(resp)
}

// toContent converts a transcript message into the Gemini wire shape.
// Gemini only knows the roles "user", "model" and "function".
func toContent(msg game.Message) *genai.Content {
	switch msg.Role {
	case game.RoleAssistant:
		parts := make([]genai.Part, 0, 1+len(msg.ToolCalls))
		if msg.Content != "" {
			parts = append(parts, genai.Text(msg.Content))
		}
		for _, call := range msg.ToolCalls {
			parts = append(parts, genai.FunctionCall{Name: call.Name, Args: call.Args})
		}
		return &genai.Content{Role: "model", Parts: parts}
	case game.RoleTool:
		return &genai.Content{Role: "function", Parts: []genai.Part{
			genai.FunctionResponse{
				Name:     msg.ToolName,
				Response: map[string]any{"result": msg.Content},
			},
		}}
	default:
		return &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Content)}}
	}
}

func fromResponse(resp *genai.GenerateContentResponse) (*Reply, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyReply
	}

	var reply Reply
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			reply.Text += string(p)
		case genai.FunctionCall:
			reply.Calls = append(reply.Calls, game.ToolCall{Name: p.Name, Args: p.Args})
		}
	}
	if reply.Text == "" && len(reply.Calls) == 0 {
		return nil, ErrEmptyReply
	}
	return &reply, nil
}
