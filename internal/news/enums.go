package news

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPersona = errors.New("unknown expert persona")
	ErrUnknownLens    = errors.New("unknown reading lens")
)

// SummaryLength selects the summary prompt template.
type SummaryLength string

const (
	SummaryShort    SummaryLength = "Short"
	SummaryMedium   SummaryLength = "Medium"
	SummaryDetailed SummaryLength = "Detailed"
)

var SummaryLengths = []SummaryLength{SummaryShort, SummaryMedium, SummaryDetailed}

// ModelPreference selects the model tier for complex tasks.
type ModelPreference string

const (
	PreferSpeed   ModelPreference = "Speed"
	PreferQuality ModelPreference = "Quality"
)

var ModelPreferences = []ModelPreference{PreferSpeed, PreferQuality}

// Voice is the closed set of read-aloud voices offered to readers.
type Voice string

const (
	VoiceKore   Voice = "Kore"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
	VoiceZephyr Voice = "Zephyr"

	DefaultVoice = VoiceKore
)

var Voices = []Voice{VoiceKore, VoicePuck, VoiceCharon, VoiceFenrir, VoiceZephyr}

// Persona is an expert voice used for article analysis.
type Persona string

const (
	PersonaEconomist         Persona = "Economist"
	PersonaHistorian         Persona = "Historian"
	PersonaPoliticalAnalyst  Persona = "Political Analyst"
	PersonaScientist         Persona = "Scientist"
	PersonaTechnologyAnalyst Persona = "Technology Analyst"
)

var Personas = []Persona{
	PersonaEconomist,
	PersonaHistorian,
	PersonaPoliticalAnalyst,
	PersonaScientist,
	PersonaTechnologyAnalyst,
}

// Lens rewrites article text for easier reading.
type Lens string

const (
	LensNone        Lens = "None"
	LensSimplify    Lens = "Simplify"
	LensDefineTerms Lens = "DefineTerms"
)

var Lenses = []Lens{LensNone, LensSimplify, LensDefineTerms}

// ConceptType classifies an extracted key concept.
type ConceptType string

const (
	ConceptPerson       ConceptType = "Person"
	ConceptOrganization ConceptType = "Organization"
	ConceptLocation     ConceptType = "Location"
	ConceptConcept      ConceptType = "Concept"
)

var ConceptTypes = []ConceptType{ConceptPerson, ConceptOrganization, ConceptLocation, ConceptConcept}

// FactStatus is the verdict of a fact-check.
type FactStatus string

const (
	FactVerified   FactStatus = "Verified"
	FactMixed      FactStatus = "Mixed"
	FactUnverified FactStatus = "Unverified"
)

var FactStatuses = []FactStatus{FactVerified, FactMixed, FactUnverified}

// lookup matches s against set ignoring case and surrounding space.
func lookup[T ~string](s string, set []T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range set {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// OrDefault returns the member of set matching s, or fallback.
func OrDefault[T ~string](s string, set []T, fallback T) T {
	if v, ok := lookup(s, set); ok {
		return v
	}
	return fallback
}

// ParseVoice never fails: unsupported names fall back to DefaultVoice.
func ParseVoice(s string) Voice { return OrDefault(s, Voices, DefaultVoice) }

func ParseSummaryLength(s string) SummaryLength { return OrDefault(s, SummaryLengths, SummaryMedium) }

func ParseModelPreference(s string) ModelPreference {
	return OrDefault(s, ModelPreferences, PreferSpeed)
}

func ParseFactStatus(s string) FactStatus { return OrDefault(s, FactStatuses, FactUnverified) }

func ParseConceptType(s string) (ConceptType, bool) { return lookup(s, ConceptTypes) }

func ParsePersona(s string) (Persona, error) {
	if p, ok := lookup(s, Personas); ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPersona, s)
}

// ParseLens accepts the empty string as LensNone.
func ParseLens(s string) (Lens, error) {
	if strings.TrimSpace(s) == "" {
		return LensNone, nil
	}
	if l, ok := lookup(s, Lenses); ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLens, s)
}
