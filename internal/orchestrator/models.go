package orchestrator

import (
	"newsreader/internal/ai"
	"newsreader/internal/news"
)

const (
	DefaultFastModel    = "gpt-5-mini"
	DefaultQualityModel = "gpt-5"
	DefaultSpeechModel  = "gpt-4o-mini-tts"
)

// Tier is the backing model class for a request.
type Tier string

const (
	TierFast    Tier = "fast"
	TierQuality Tier = "quality"
)

// SelectTier is a pure function of the reader's model preference.
func SelectTier(s news.Settings) Tier {
	if news.ParseModelPreference(string(s.AIModelPreference)) == news.PreferQuality {
		return TierQuality
	}
	return TierFast
}

// quick is used by interactive, low-risk tasks: always the fast model, no reasoning.
func (o *Orchestrator) quick() ai.Request {
	return ai.Request{Model: o.opts.FastModel}
}

// tiered honours the reader's preference; reasoning is on only for the quality tier.
func (o *Orchestrator) tiered(s news.Settings) ai.Request {
	if SelectTier(s) == TierQuality {
		return ai.Request{Model: o.opts.QualityModel, Reasoning: true}
	}
	return ai.Request{Model: o.opts.FastModel}
}
