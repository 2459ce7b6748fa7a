package ai

import (
	"log/slog"

	"github.com/openai/openai-go/v3/responses"
)

// TokenUsage captures token usage returned by the Responses API.
type TokenUsage struct {
	InputTokens     int64
	OutputTokens    int64
	TotalTokens     int64
	CachedTokens    int64
	ReasoningTokens int64
}

func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		InputTokens:     u.InputTokens + other.InputTokens,
		OutputTokens:    u.OutputTokens + other.OutputTokens,
		TotalTokens:     u.TotalTokens + other.TotalTokens,
		CachedTokens:    u.CachedTokens + other.CachedTokens,
		ReasoningTokens: u.ReasoningTokens + other.ReasoningTokens,
	}
}

// LogValue groups the counters under one slog attribute.
func (u TokenUsage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("input", u.InputTokens),
		slog.Int64("output", u.OutputTokens),
		slog.Int64("total", u.TotalTokens),
		slog.Int64("cached", u.CachedTokens),
		slog.Int64("reasoning", u.ReasoningTokens),
	)
}

func usageFromResponse(usage responses.ResponseUsage) TokenUsage {
	return TokenUsage{
		InputTokens:     usage.InputTokens,
		OutputTokens:    usage.OutputTokens,
		TotalTokens:     usage.TotalTokens,
		CachedTokens:    usage.InputTokensDetails.CachedTokens,
		ReasoningTokens: usage.OutputTokensDetails.ReasoningTokens,
	}
}
