package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"newsreader/internal/news"
)

const (
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"

	BackendMemory = "memory"
	BackendS3     = "s3"
	BackendRedis  = "redis"
)

// Config holds resolved configuration values after merging file, env, and flags.
type Config struct {
	// Catalog is a YAML or JSON article file; empty uses the built-in sample.
	Catalog         string `json:"catalog,omitempty"`
	FastModel       string `json:"fastModel,omitempty"`
	QualityModel    string `json:"qualityModel,omitempty"`
	TTSModel        string `json:"ttsModel,omitempty"`
	TTSProvider     string `json:"ttsProvider,omitempty"`
	Voice           string `json:"voice,omitempty"`
	SummaryLength   string `json:"summaryLength,omitempty"`
	ModelPreference string `json:"modelPreference,omitempty"`
	OpenAIBaseURL   string `json:"openaiBaseUrl,omitempty"`
	// ElevenLabsVoices maps reader voice names to ElevenLabs voice IDs.
	ElevenLabsVoices map[string]string `json:"elevenLabsVoices,omitempty"`
	S3Bucket         string            `json:"s3Bucket,omitempty"`
	S3Prefix         string            `json:"s3Prefix,omitempty"`
	Region           string            `json:"region,omitempty"`
	LibraryBackend   string            `json:"libraryBackend,omitempty"`
	RedisAddr        string            `json:"redisAddr,omitempty"`
	Addr             string            `json:"addr,omitempty"`
	OutDir           string            `json:"outDir,omitempty"`
	Debug            bool              `json:"debug,omitempty"`
	Overwrite        bool              `json:"overwrite,omitempty"`

	// Not persisted to file; sourced from env only.
	OpenAIAPIKey     string `json:"-"`
	ElevenLabsAPIKey string `json:"-"`
}

// Overrides represents optional overrides from env or flags.
// Only non-nil pointers are applied during merge.
type Overrides struct {
	Catalog         *string
	FastModel       *string
	QualityModel    *string
	TTSModel        *string
	TTSProvider     *string
	Voice           *string
	SummaryLength   *string
	ModelPreference *string
	OpenAIBaseURL   *string
	S3Bucket        *string
	S3Prefix        *string
	Region          *string
	LibraryBackend  *string
	RedisAddr       *string
	Addr            *string
	OutDir          *string
	Debug           *bool
	Overwrite       *bool
}

// Secrets are read from the environment only.
type Secrets struct {
	OpenAIAPIKey     string
	ElevenLabsAPIKey string
}

func Default() Config {
	return Config{
		FastModel:       "gpt-5-mini",
		QualityModel:    "gpt-5",
		TTSModel:        "gpt-4o-mini-tts",
		TTSProvider:     ProviderOpenAI,
		Voice:           string(news.DefaultVoice),
		SummaryLength:   string(news.SummaryMedium),
		ModelPreference: string(news.PreferSpeed),
		S3Prefix:        "newsreader",
		LibraryBackend:  BackendMemory,
		Addr:            ":8080",
		OutDir:          "out",
	}
}

// LoadFile reads a JSON config. If file not found, returns defaults and no error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given files (default ".env") into
// the process environment without replacing variables that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

var envStrings = []struct {
	name string
	dst  func(*Overrides) **string
}{
	{"NEWSREADER_CATALOG", func(o *Overrides) **string { return &o.Catalog }},
	{"NEWSREADER_FAST_MODEL", func(o *Overrides) **string { return &o.FastModel }},
	{"NEWSREADER_QUALITY_MODEL", func(o *Overrides) **string { return &o.QualityModel }},
	{"NEWSREADER_TTS_MODEL", func(o *Overrides) **string { return &o.TTSModel }},
	{"NEWSREADER_TTS_PROVIDER", func(o *Overrides) **string { return &o.TTSProvider }},
	{"NEWSREADER_VOICE", func(o *Overrides) **string { return &o.Voice }},
	{"NEWSREADER_SUMMARY_LENGTH", func(o *Overrides) **string { return &o.SummaryLength }},
	{"NEWSREADER_MODEL_PREFERENCE", func(o *Overrides) **string { return &o.ModelPreference }},
	{"OPENAI_BASE_URL", func(o *Overrides) **string { return &o.OpenAIBaseURL }},
	{"AWS_S3_BUCKET", func(o *Overrides) **string { return &o.S3Bucket }},
	{"AWS_S3_PREFIX", func(o *Overrides) **string { return &o.S3Prefix }},
	{"AWS_REGION", func(o *Overrides) **string { return &o.Region }},
	{"NEWSREADER_LIBRARY", func(o *Overrides) **string { return &o.LibraryBackend }},
	{"NEWSREADER_REDIS_ADDR", func(o *Overrides) **string { return &o.RedisAddr }},
	{"NEWSREADER_ADDR", func(o *Overrides) **string { return &o.Addr }},
	{"NEWSREADER_OUT_DIR", func(o *Overrides) **string { return &o.OutDir }},
}

// FromEnv reads env vars and returns overrides and API keys.
func FromEnv() (Overrides, Secrets) {
	var ov Overrides
	for _, e := range envStrings {
		if v, ok := os.LookupEnv(e.name); ok {
			*e.dst(&ov) = &[]string{v}[0]
		}
	}
	if v, ok := os.LookupEnv("NEWSREADER_DEBUG"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Debug = &[]bool{b}[0]
		}
	}
	if v, ok := os.LookupEnv("NEWSREADER_OVERWRITE"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Overwrite = &[]bool{b}[0]
		}
	}
	return ov, Secrets{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
	}
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return false, fmt.Errorf("empty bool")
	}
	switch s {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Merge applies overrides in order: file -> env -> flags.
func Merge(fileCfg Config, env Overrides, flags Overrides, secrets Secrets) Config {
	cfg := fileCfg

	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply := func(ov Overrides) {
		setString(&cfg.Catalog, ov.Catalog)
		setString(&cfg.FastModel, ov.FastModel)
		setString(&cfg.QualityModel, ov.QualityModel)
		setString(&cfg.TTSModel, ov.TTSModel)
		setString(&cfg.TTSProvider, ov.TTSProvider)
		setString(&cfg.Voice, ov.Voice)
		setString(&cfg.SummaryLength, ov.SummaryLength)
		setString(&cfg.ModelPreference, ov.ModelPreference)
		setString(&cfg.OpenAIBaseURL, ov.OpenAIBaseURL)
		setString(&cfg.S3Bucket, ov.S3Bucket)
		setString(&cfg.S3Prefix, ov.S3Prefix)
		setString(&cfg.Region, ov.Region)
		setString(&cfg.LibraryBackend, ov.LibraryBackend)
		setString(&cfg.RedisAddr, ov.RedisAddr)
		setString(&cfg.Addr, ov.Addr)
		setString(&cfg.OutDir, ov.OutDir)
		if ov.Debug != nil {
			cfg.Debug = *ov.Debug
		}
		if ov.Overwrite != nil {
			cfg.Overwrite = *ov.Overwrite
		}
	}

	apply(env)
	apply(flags)

	cfg.OpenAIAPIKey = secrets.OpenAIAPIKey
	cfg.ElevenLabsAPIKey = secrets.ElevenLabsAPIKey
	return cfg
}

// Settings returns reader settings seeded from the configured defaults.
func (c Config) Settings() news.Settings {
	s := news.DefaultSettings()
	if c.Voice != "" {
		s.TTSVoice = news.Voice(c.Voice)
	}
	if c.SummaryLength != "" {
		s.SummaryLength = news.SummaryLength(c.SummaryLength)
	}
	if c.ModelPreference != "" {
		s.AIModelPreference = news.ModelPreference(c.ModelPreference)
	}
	return s.Normalize()
}

// Voices returns the configured ElevenLabs voice IDs keyed by reader voice.
func (c Config) Voices() map[news.Voice]string {
	if len(c.ElevenLabsVoices) == 0 {
		return nil
	}
	out := make(map[news.Voice]string, len(c.ElevenLabsVoices))
	for name, id := range c.ElevenLabsVoices {
		out[news.ParseVoice(name)] = id
	}
	return out
}

// Validation helpers
func ValidateForText(cfg Config) error {
	if cfg.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required for text generation")
	}
	if cfg.FastModel == "" || cfg.QualityModel == "" {
		return errors.New("fast and quality models are required")
	}
	return nil
}

func ValidateForSpeech(cfg Config) error {
	switch cfg.TTSProvider {
	case ProviderOpenAI, "":
		if cfg.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for speech generation")
		}
		if cfg.TTSModel == "" {
			return errors.New("tts model is required")
		}
	case ProviderElevenLabs:
		if cfg.ElevenLabsAPIKey == "" {
			return errors.New("ELEVENLABS_API_KEY is required when ttsProvider is elevenlabs")
		}
		if len(cfg.ElevenLabsVoices) == 0 {
			return errors.New("elevenLabsVoices must map at least one voice when ttsProvider is elevenlabs")
		}
	default:
		return fmt.Errorf("unsupported ttsProvider %q (want %s or %s)", cfg.TTSProvider, ProviderOpenAI, ProviderElevenLabs)
	}
	return nil
}

func ValidateForPublish(cfg Config) error {
	if cfg.S3Bucket == "" {
		return errors.New("S3 bucket is required for publish")
	}
	if cfg.Region == "" {
		return errors.New("AWS region is required for publish")
	}
	return nil
}

func ValidateForServe(cfg Config) error {
	if err := ValidateForText(cfg); err != nil {
		return err
	}
	if cfg.Addr == "" {
		return errors.New("listen address is required")
	}
	switch cfg.LibraryBackend {
	case BackendMemory, "":
	case BackendS3:
		if cfg.S3Bucket == "" {
			return errors.New("S3 bucket is required for the s3 library backend")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return errors.New("redis address is required for the redis library backend")
		}
	default:
		return fmt.Errorf("unsupported library backend %q", cfg.LibraryBackend)
	}
	return nil
}
