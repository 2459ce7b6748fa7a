package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const (
	eventOutputTextDelta = "response.output_text.delta"
	eventFailed          = "response.failed"
	eventIncomplete      = "response.incomplete"
	eventError           = "error"
)

// Client wraps the official OpenAI SDK client and exposes the calls used by the orchestrator.
type Client struct {
	apiKey  string
	baseURL string
	sdk     openai.Client
}

var _ Generator = (*Client)(nil)
var _ TTSClient = (*Client)(nil)

// New constructs a new AI client. The apiKey is required.
// baseURL is optional (empty string uses the default API endpoint).
func New(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	sdk := openai.NewClient(opts...)
	return &Client{apiKey: apiKey, baseURL: baseURL, sdk: sdk}, nil
}

func (c *Client) APIKey() string  { return c.apiKey }
func (c *Client) BaseURL() string { return c.baseURL }

// GenerateText calls the Responses API and returns the concatenated output text.
// With a schema set, the text is the JSON document produced under structured outputs.
func (c *Client) GenerateText(ctx context.Context, req Request) (string, TokenUsage, error) {
	res, err := c.sdk.Responses.New(ctx, buildParams(req))
	if err != nil {
		return "", TokenUsage{}, err
	}
	return res.OutputText(), usageFromResponse(res.Usage), nil
}

// StreamText calls the Responses API in streaming mode and yields output text deltas.
// Failed, incomplete and error events end the sequence with an error.
// Stopping the iteration early closes the underlying event stream.
func (c *Client) StreamText(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s := c.sdk.Responses.NewStreaming(ctx, buildParams(req))
		defer s.Close()
		for s.Next() {
			event := s.Current()
			switch event.Type {
			case eventOutputTextDelta:
				delta := event.AsResponseOutputTextDelta().Delta
				if delta == "" {
					continue
				}
				if !yield(delta, nil) {
					return
				}
			case eventFailed, eventIncomplete, eventError:
				yield("", streamEventError(event))
				return
			}
		}
		if err := s.Err(); err != nil {
			yield("", err)
		}
	}
}

// TTS writes MP3 audio to the provided writer using the Audio Speech API.
// model should be a TTS-capable model (e.g., gpt-4o-mini-tts) and voice is a supported voice name.
func (c *Client) TTS(ctx context.Context, model, voice, text string, w io.Writer) error {
	req := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	resp, err := c.sdk.Audio.Speech.New(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return err
}

func streamEventError(event responses.ResponseStreamEventUnion) error {
	switch event.Type {
	case eventFailed:
		e := event.AsResponseFailed().Response.Error
		if e.Message == "" {
			return errors.New("response failed")
		}
		return fmt.Errorf("response failed: %s (%s)", e.Message, e.Code)
	case eventIncomplete:
		reason := event.AsResponseIncomplete().Response.IncompleteDetails.Reason
		if reason == "" {
			reason = "unknown reason"
		}
		return fmt.Errorf("response incomplete: %s", reason)
	default:
		e := event.AsError()
		if e.Code == "" {
			return fmt.Errorf("stream error: %s", e.Message)
		}
		return fmt.Errorf("stream error: %s (%s)", e.Message, e.Code)
	}
}

func buildParams(req Request) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: req.Model,
	}
	if req.System != "" {
		params.Instructions = param.NewOpt(req.System)
	}
	if len(req.History) == 0 {
		params.Input = responses.ResponseNewParamsInputUnion{OfString: param.NewOpt(req.Prompt)}
	} else {
		items := make(responses.ResponseInputParam, 0, len(req.History)+1)
		for _, m := range req.History {
			items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, inputRole(m.Role)))
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(req.Prompt, responses.EasyInputMessageRoleUser))
		params.Input = responses.ResponseNewParamsInputUnion{OfInputItemList: items}
	}
	if !req.Reasoning {
		// web_search is rejected at minimal effort
		effort := shared.ReasoningEffortMinimal
		if req.WebSearch {
			effort = shared.ReasoningEffortLow
		}
		params.Reasoning = shared.ReasoningParam{Effort: effort}
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.Schema.Name,
					Schema: req.Schema.Definition,
					Strict: param.NewOpt(true),
				},
			},
		}
	}
	if req.WebSearch {
		params.Tools = []responses.ToolUnionParam{
			{OfWebSearch: &responses.WebSearchToolParam{Type: "web_search"}},
		}
	}
	return params
}

func inputRole(r Role) responses.EasyInputMessageRole {
	if r == RoleModel {
		return responses.EasyInputMessageRoleAssistant
	}
	return responses.EasyInputMessageRoleUser
}
