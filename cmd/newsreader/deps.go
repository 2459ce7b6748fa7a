package main

import (
	"fmt"
	"log/slog"
	"strings"

	"newsreader/internal/ai"
	cfgpkg "newsreader/internal/config"
	"newsreader/internal/orchestrator"
)

var newGenerator = func(cfg cfgpkg.Config) (ai.Generator, error) {
	return ai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
}

var newTTSClient = func(cfg cfgpkg.Config) (ai.TTSClient, error) {
	switch ttsProvider(cfg) {
	case cfgpkg.ProviderOpenAI:
		return ai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	case cfgpkg.ProviderElevenLabs:
		return ai.NewElevenLabs(cfg.ElevenLabsAPIKey)
	default:
		return nil, fmt.Errorf("unsupported tts provider: %s", cfg.TTSProvider)
	}
}

func ttsProvider(cfg cfgpkg.Config) string {
	provider := strings.ToLower(strings.TrimSpace(cfg.TTSProvider))
	if provider == "" {
		return cfgpkg.ProviderOpenAI
	}
	return provider
}

// speechModel keeps an OpenAI model name from reaching ElevenLabs.
func speechModel(cfg cfgpkg.Config) string {
	if ttsProvider(cfg) == cfgpkg.ProviderElevenLabs && !strings.HasPrefix(cfg.TTSModel, "eleven_") {
		return ai.DefaultElevenLabsModel
	}
	return cfg.TTSModel
}

// newOrchestrator wires the text client and, when withSpeech is set, the
// configured speech provider.
func newOrchestrator(cfg cfgpkg.Config, withSpeech bool) (*orchestrator.Orchestrator, error) {
	if err := cfgpkg.ValidateForText(cfg); err != nil {
		return nil, err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}
	var tts ai.TTSClient
	if withSpeech {
		if err := cfgpkg.ValidateForSpeech(cfg); err != nil {
			return nil, err
		}
		if tts, err = newTTSClient(cfg); err != nil {
			return nil, err
		}
	}
	opts := orchestrator.Options{
		FastModel:    cfg.FastModel,
		QualityModel: cfg.QualityModel,
		SpeechModel:  speechModel(cfg),
		Logger:       slog.Default(),
	}
	if ttsProvider(cfg) == cfgpkg.ProviderElevenLabs {
		opts.Voices = cfg.Voices()
	}
	return orchestrator.New(gen, tts, opts), nil
}
