package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	elevenLabsDefaultBaseURL      = "https://api.elevenlabs.io"
	elevenLabsDefaultOutputFormat = "mp3_44100_128"
	DefaultElevenLabsModel        = "eleven_multilingual_v2"
)

// ElevenLabsOption configures the ElevenLabs client.
type ElevenLabsOption func(*ElevenLabs)

// WithElevenLabsBaseURL sets the ElevenLabs API base URL.
func WithElevenLabsBaseURL(baseURL string) ElevenLabsOption {
	return func(c *ElevenLabs) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithElevenLabsHTTPClient sets the HTTP client used for requests.
func WithElevenLabsHTTPClient(client *http.Client) ElevenLabsOption {
	return func(c *ElevenLabs) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// ElevenLabs is a speech-only client for the ElevenLabs text-to-speech endpoint.
type ElevenLabs struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ TTSClient = (*ElevenLabs)(nil)

// NewElevenLabs constructs a new ElevenLabs client. The apiKey is required.
func NewElevenLabs(apiKey string, opts ...ElevenLabsOption) (*ElevenLabs, error) {
	if apiKey == "" {
		return nil, errors.New("ELEVENLABS_API_KEY is required")
	}
	c := &ElevenLabs{
		apiKey:  apiKey,
		baseURL: elevenLabsDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// VoiceSettings tunes ElevenLabs synthesis.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// NewsReadingVoiceSettings favours a steady delivery for read-aloud articles.
func NewsReadingVoiceSettings() *VoiceSettings {
	return &VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// SpeechRequest is a request to generate speech.
type SpeechRequest struct {
	VoiceID       string
	Text          string
	ModelID       string
	VoiceSettings *VoiceSettings
	OutputFormat  string
}

// Synthesize generates speech audio and returns a reader for the audio stream.
// The caller closes the reader.
func (c *ElevenLabs) Synthesize(ctx context.Context, req SpeechRequest) (io.ReadCloser, error) {
	if strings.TrimSpace(req.VoiceID) == "" {
		return nil, errors.New("voice_id is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("text is required")
	}
	format := req.OutputFormat
	if format == "" {
		format = elevenLabsDefaultOutputFormat
	}

	endpoint, err := url.Parse(strings.TrimRight(c.baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse elevenlabs base url: %w", err)
	}
	endpoint.Path = "/v1/text-to-speech/" + url.PathEscape(req.VoiceID)
	endpoint.RawQuery = url.Values{"output_format": {format}}.Encode()

	body := struct {
		Text          string         `json:"text"`
		ModelID       string         `json:"model_id,omitempty"`
		VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
	}{
		Text:          req.Text,
		ModelID:       req.ModelID,
		VoiceSettings: req.VoiceSettings,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode elevenlabs request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &buf)
	if err != nil {
		return nil, fmt.Errorf("build elevenlabs request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("accept", "audio/mpeg")
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ElevenLabsAPIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}
	return resp.Body, nil
}

// TTS writes MP3 audio to w. An empty model uses the multilingual default.
func (c *ElevenLabs) TTS(ctx context.Context, model, voice, text string, w io.Writer) error {
	if model == "" {
		model = DefaultElevenLabsModel
	}
	audio, err := c.Synthesize(ctx, SpeechRequest{
		VoiceID:       voice,
		Text:          text,
		ModelID:       model,
		VoiceSettings: NewsReadingVoiceSettings(),
	})
	if err != nil {
		return err
	}
	defer audio.Close()
	_, err = io.Copy(w, audio)
	return err
}

// ElevenLabsAPIError captures error details from ElevenLabs responses.
type ElevenLabsAPIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ElevenLabsAPIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("elevenlabs api error: %s", e.Status)
	}
	return fmt.Sprintf("elevenlabs api error: %s: %s", e.Status, e.Body)
}
