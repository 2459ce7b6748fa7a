package main

import (
	"bytes"
	"context"
	"io"
	"iter"
	"os"
	"sync"
	"testing"

	"newsreader/internal/ai"
	cfgpkg "newsreader/internal/config"
	"newsreader/internal/stream"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []ai.Request
	text     string
	chunks   []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, req ai.Request) (string, ai.TokenUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.text, ai.TokenUsage{}, nil
}

func (f *fakeGenerator) StreamText(ctx context.Context, req ai.Request) iter.Seq2[string, error] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
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

type fakeTTSClient struct {
	lastModel string
	lastVoice string
	lastText  string
	calls     int
}

func (f *fakeTTSClient) TTS(ctx context.Context, model, voice, text string, w io.Writer) error {
	f.lastModel = model
	f.lastVoice = voice
	f.lastText = text
	f.calls++
	_, err := w.Write([]byte("mp3bytes"))
	return err
}

// useFakes swaps the client constructors and isolates the test in a temp
// directory with a test API key.
func useFakes(t *testing.T, gen *fakeGenerator, tts *fakeTTSClient) {
	t.Helper()
	origGen, origTTS := newGenerator, newTTSClient
	t.Cleanup(func() { newGenerator, newTTSClient = origGen, origTTS })
	newGenerator = func(cfg cfgpkg.Config) (ai.Generator, error) { return gen, nil }
	newTTSClient = func(cfg cfgpkg.Config) (ai.TTSClient, error) { return tts, nil }

	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := stdout
	t.Cleanup(func() { stdout = orig })
	var buf bytes.Buffer
	stdout = &buf
	return &buf
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o644)
}

// unsetenv removes key for the rest of the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
}
