package orchestrator

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sync"

	"newsreader/internal/ai"
	"newsreader/internal/news"
	"newsreader/internal/stream"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []ai.Request
	text     string
	chunks   []string
	err      error
}

func (f *fakeGenerator) record(req ai.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *fakeGenerator) GenerateText(ctx context.Context, req ai.Request) (string, ai.TokenUsage, error) {
	f.record(req)
	if f.err != nil {
		return "", ai.TokenUsage{}, f.err
	}
	return f.text, ai.TokenUsage{TotalTokens: 42}, nil
}

func (f *fakeGenerator) StreamText(ctx context.Context, req ai.Request) iter.Seq2[string, error] {
	f.record(req)
	if f.err != nil {
		return stream.Fail(f.err, f.chunks...)
	}
	return stream.Of(f.chunks...)
}

func (f *fakeGenerator) last() ai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ai.Request{}
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeTTS struct {
	model, voice, text string
	calls              int
	err                error
}

func (f *fakeTTS) TTS(ctx context.Context, model, voice, text string, w io.Writer) error {
	f.model, f.voice, f.text = model, voice, text
	f.calls++
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("mp3bytes"))
	return err
}

func newTestOrchestrator(gen *fakeGenerator, tts *fakeTTS) *Orchestrator {
	var speech ai.TTSClient
	if tts != nil {
		speech = tts
	}
	return New(gen, speech, Options{
		FastModel:    "fast-model",
		QualityModel: "quality-model",
		SpeechModel:  "speech-model",
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

var testArticle = news.Article{
	ID:       1,
	Title:    "City Council Approves Night Buses",
	Excerpt:  "Twelve new overnight routes.",
	Content:  "<p>The council voted 31 to 9.</p><p>Routes start in March.</p>",
	Author:   "Maya Okafor",
	Date:     "2026-10-12",
	Category: "Local",
}

func speed() news.Settings {
	s := news.DefaultSettings()
	s.AIModelPreference = news.PreferSpeed
	return s
}

func quality() news.Settings {
	s := news.DefaultSettings()
	s.AIModelPreference = news.PreferQuality
	return s
}
