package ai

import (
	"context"
	"io"
	"iter"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one prior turn sent along with a prompt.
type Message struct {
	Role    Role
	Content string
}

// Schema constrains the response to a named JSON schema.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Request is the single call shape accepted by the remote text model.
type Request struct {
	Model  string
	System string
	Prompt string
	// History holds earlier turns, oldest first. Prompt is appended as the final user turn.
	History []Message
	Schema  *Schema
	// Reasoning enables the model's extended reasoning. When false the request
	// asks for minimal reasoning effort.
	Reasoning bool
	// WebSearch lets the model ground its answer with the hosted search tool.
	WebSearch bool
}

// TextClient generates complete text (or schema-constrained JSON) responses.
type TextClient interface {
	GenerateText(ctx context.Context, req Request) (string, TokenUsage, error)
}

// StreamClient generates text incrementally. The sequence ends after the last
// chunk or after a single non-nil error.
type StreamClient interface {
	StreamText(ctx context.Context, req Request) iter.Seq2[string, error]
}

// Generator is the full text surface used by the orchestrator.
type Generator interface {
	TextClient
	StreamClient
}

// TTSClient synthesizes speech audio from text.
type TTSClient interface {
	TTS(ctx context.Context, model, voice, text string, w io.Writer) error
}
