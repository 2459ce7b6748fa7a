package news

// Settings is the reader's configuration. The orchestrator reads it on every
// call and never mutates it.
type Settings struct {
	Theme         string `json:"theme,omitempty"`
	FontSize      string `json:"fontSize,omitempty"`
	ReducedMotion bool   `json:"reducedMotion,omitempty"`

	SummaryLength     SummaryLength   `json:"summaryLength,omitempty"`
	TTSVoice          Voice           `json:"ttsVoice,omitempty"`
	AIModelPreference ModelPreference `json:"aiModelPreference,omitempty"`

	PreferredCategories []string `json:"preferredCategories,omitempty"`
	HiddenCategories    []string `json:"hiddenCategories,omitempty"`

	BreakingNewsAlerts bool `json:"breakingNewsAlerts,omitempty"`
	DailyDigest        bool `json:"dailyDigest,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:             "system",
		FontSize:          "medium",
		SummaryLength:     SummaryMedium,
		TTSVoice:          DefaultVoice,
		AIModelPreference: PreferSpeed,
	}
}

// Normalize maps every enumerated field onto its closed set, substituting
// defaults for empty or unknown values.
func (s Settings) Normalize() Settings {
	s.SummaryLength = ParseSummaryLength(string(s.SummaryLength))
	s.TTSVoice = ParseVoice(string(s.TTSVoice))
	s.AIModelPreference = ParseModelPreference(string(s.AIModelPreference))
	return s
}

// Hides reports whether articles in category are filtered out.
func (s Settings) Hides(category string) bool {
	for _, c := range s.HiddenCategories {
		if c == category {
			return true
		}
	}
	return false
}
