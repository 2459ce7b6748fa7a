// Package orchestrator turns reader tasks into requests against the remote AI
// capability and adapts each response to the shape its caller expects.
//
// Operations returning lists or optional records fail soft: errors are logged
// and an empty result is returned. Operations returning required text fail hard
// with a *UserError carrying a message fit for display.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsreader/internal/ai"
	"newsreader/internal/news"
	"newsreader/internal/stream"
)

// Options selects the backing models and speech voices.
type Options struct {
	FastModel    string
	QualityModel string
	SpeechModel  string
	// Voices maps each reader voice to the speech provider's voice name.
	// Missing entries use OpenAIVoices.
	Voices map[news.Voice]string
	Logger *slog.Logger
}

// Orchestrator is safe for concurrent use; it holds no per-request state.
type Orchestrator struct {
	text   ai.Generator
	speech ai.TTSClient
	opts   Options
	log    *slog.Logger
}

// New builds an orchestrator. speech may be nil when text-to-speech is unused.
func New(text ai.Generator, speech ai.TTSClient, opts Options) *Orchestrator {
	if opts.FastModel == "" {
		opts.FastModel = DefaultFastModel
	}
	if opts.QualityModel == "" {
		opts.QualityModel = DefaultQualityModel
	}
	if opts.SpeechModel == "" {
		opts.SpeechModel = DefaultSpeechModel
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{text: text, speech: speech, opts: opts, log: log.With("component", "orchestrator")}
}

// UserError is a hard failure with a generic, displayable message.
type UserError struct {
	Op      string
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

var userMessages = map[string]string{
	opSummarize:     "Sorry, we couldn't summarize this article. Please try again.",
	opExplain:       "Sorry, we couldn't simplify this article. Please try again.",
	opSpeech:        "Sorry, audio isn't available for this text right now.",
	opTranslate:     "Sorry, we couldn't translate this article. Please try again.",
	opQuiz:          "Sorry, we couldn't create a quiz for this article.",
	opCounterpoint:  "Sorry, we couldn't generate a counterpoint for this article.",
	opBehindTheNews: "Sorry, we couldn't load the background briefing for this article.",
	opExpert:        "Sorry, the expert analysis isn't available right now.",
	opAsk:           "Sorry, we couldn't answer that question. Please try again.",
	opLens:          "Sorry, we couldn't apply that reading lens.",
	opAuthor:        "Sorry, the author is unavailable to answer right now.",
	opBriefing:      "Sorry, we couldn't prepare your news briefing.",
}

func (o *Orchestrator) fail(op string, err error) error {
	var ue *UserError
	if errors.As(err, &ue) {
		return err
	}
	o.log.Error("ai request failed", "op", op, "err", err)
	msg, ok := userMessages[op]
	if !ok {
		msg = "Sorry, something went wrong. Please try again."
	}
	return &UserError{Op: op, Message: msg, Err: err}
}

var errEmptyResponse = errors.New("empty response")

func (o *Orchestrator) soft(op string, err error) {
	o.log.Warn("ai request failed, returning empty result", "op", op, "err", err)
}

func (o *Orchestrator) generate(ctx context.Context, op string, req ai.Request) (string, error) {
	start := time.Now()
	text, usage, err := o.text.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}
	o.log.Debug("ai call completed",
		"op", op,
		"model", req.Model,
		"reasoning", req.Reasoning,
		"elapsed", time.Since(start).String(),
		"usage", usage,
	)
	return text, nil
}

func (o *Orchestrator) streamText(ctx context.Context, op string, req ai.Request) stream.Text {
	o.log.Debug("ai stream started", "op", op, "model", req.Model, "reasoning", req.Reasoning)
	seq := stream.NonEmpty(o.text.StreamText(ctx, req), errEmptyResponse)
	return stream.MapErr(seq, func(err error) error {
		return o.fail(op, err)
	})
}

// generateJSON runs a schema-constrained request and decodes the result into T.
func generateJSON[T any](ctx context.Context, o *Orchestrator, op string, req ai.Request) (T, error) {
	var out T
	text, err := o.generate(ctx, op, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", op, err)
	}
	return out, nil
}

// stripFences removes a Markdown code fence some models wrap around JSON.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
