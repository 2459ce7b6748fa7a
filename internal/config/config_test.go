package config

import (
	"os"
	"path/filepath"
	"testing"

	"newsreader/internal/news"
)

func TestMergePrecedence(t *testing.T) {
	file := Default()
	file.Voice = "Puck"
	file.S3Bucket = "file-bucket"

	env := Overrides{}
	env.Voice = strPtr("Charon")
	env.S3Bucket = strPtr("env-bucket")

	flags := Overrides{}
	flags.Voice = strPtr("Zephyr")
	flags.Debug = boolPtr(true)

	cfg := Merge(file, env, flags, Secrets{OpenAIAPIKey: "sk-key", ElevenLabsAPIKey: "el-key"})
	if cfg.Voice != "Zephyr" {
		t.Fatalf("voice precedence wrong: %s", cfg.Voice)
	}
	if cfg.S3Bucket != "env-bucket" {
		t.Fatalf("bucket precedence wrong: %s", cfg.S3Bucket)
	}
	if !cfg.Debug {
		t.Fatalf("debug flag not applied")
	}
	if cfg.OpenAIAPIKey != "sk-key" || cfg.ElevenLabsAPIKey != "el-key" {
		t.Fatalf("api keys not set")
	}
	if cfg.FastModel != Default().FastModel {
		t.Fatalf("unset overrides must keep file values")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFile(filepath.Join(dir, "missing.json"))
	if err != nil || cfg.Addr != ":8080" {
		t.Fatalf("missing file should yield defaults: %+v %v", cfg, err)
	}

	path := filepath.Join(dir, "config.json")
	body := `{"qualityModel":"gpt-5-pro","libraryBackend":"redis","redisAddr":"localhost:6379","elevenLabsVoices":{"Kore":"voice-kore"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.QualityModel != "gpt-5-pro" || cfg.FastModel != "gpt-5-mini" || cfg.LibraryBackend != BackendRedis {
		t.Fatalf("file values not merged over defaults: %+v", cfg)
	}
	if cfg.Voices()[news.VoiceKore] != "voice-kore" {
		t.Fatalf("voices not mapped: %v", cfg.Voices())
	}

	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("NEWSREADER_VOICE", "Fenrir")
	t.Setenv("NEWSREADER_DEBUG", "1")
	t.Setenv("NEWSREADER_LIBRARY", "s3")
	t.Setenv("AWS_S3_BUCKET", "news-bucket")
	t.Setenv("OPENAI_API_KEY", "sk-xyz")
	t.Setenv("ELEVENLABS_API_KEY", "el-xyz")
	ov, secrets := FromEnv()
	if ov.Voice == nil || *ov.Voice != "Fenrir" {
		t.Fatalf("voice not read from env")
	}
	if ov.Debug == nil || *ov.Debug != true {
		t.Fatalf("debug not parsed as true")
	}
	if ov.LibraryBackend == nil || *ov.LibraryBackend != "s3" || ov.S3Bucket == nil || *ov.S3Bucket != "news-bucket" {
		t.Fatalf("library settings not read from env")
	}
	if ov.RedisAddr != nil {
		t.Fatalf("unset env var produced an override")
	}
	if secrets.OpenAIAPIKey != "sk-xyz" || secrets.ElevenLabsAPIKey != "el-xyz" {
		t.Fatalf("api keys not read from env")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("NEWSREADER_ADDR=:9999\nNEWSREADER_VOICE=Puck\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("NEWSREADER_VOICE", "Kore")
	t.Setenv("NEWSREADER_ADDR", "")
	os.Unsetenv("NEWSREADER_ADDR")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("NEWSREADER_ADDR"); got != ":9999" {
		t.Fatalf("addr not loaded: %q", got)
	}
	if got := os.Getenv("NEWSREADER_VOICE"); got != "Kore" {
		t.Fatalf("existing env must win over .env: %q", got)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := Default()
	cfg.Voice = "Charon"
	cfg.SummaryLength = "Short"
	cfg.ModelPreference = "bogus"
	s := cfg.Settings()
	if s.TTSVoice != news.VoiceCharon || s.SummaryLength != news.SummaryShort {
		t.Fatalf("settings not seeded: %+v", s)
	}
	if s.AIModelPreference != news.PreferSpeed {
		t.Fatalf("unknown preference must normalise to Speed: %s", s.AIModelPreference)
	}
}

func TestValidateTextRequiresAPIKey(t *testing.T) {
	cfg := Default()
	if err := ValidateForText(cfg); err == nil {
		t.Fatalf("expected error without OPENAI_API_KEY")
	}
	cfg.OpenAIAPIKey = "sk-test"
	if err := ValidateForText(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateForSpeech(t *testing.T) {
	cfg := Default()
	cfg.OpenAIAPIKey = "sk-test"
	if err := ValidateForSpeech(cfg); err != nil {
		t.Fatalf("openai provider: %v", err)
	}
	cfg.TTSProvider = ProviderElevenLabs
	if err := ValidateForSpeech(cfg); err == nil {
		t.Fatalf("expected error without ELEVENLABS_API_KEY")
	}
	cfg.ElevenLabsAPIKey = "el"
	cfg.ElevenLabsVoices = map[string]string{"Kore": "id"}
	if err := ValidateForSpeech(cfg); err != nil {
		t.Fatalf("elevenlabs provider: %v", err)
	}
	cfg.TTSProvider = "polly"
	if err := ValidateForSpeech(cfg); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestValidateForServeBackends(t *testing.T) {
	cfg := Default()
	cfg.OpenAIAPIKey = "sk-test"
	if err := ValidateForServe(cfg); err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	cfg.LibraryBackend = BackendRedis
	if err := ValidateForServe(cfg); err == nil {
		t.Fatalf("expected error without redis address")
	}
	cfg.RedisAddr = "localhost:6379"
	if err := ValidateForServe(cfg); err != nil {
		t.Fatalf("redis backend: %v", err)
	}
	cfg.LibraryBackend = BackendS3
	if err := ValidateForServe(cfg); err == nil {
		t.Fatalf("expected error without bucket")
	}
	cfg.LibraryBackend = "sqlite"
	if err := ValidateForServe(cfg); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestValidateForPublish(t *testing.T) {
	cfg := Default()
	if err := ValidateForPublish(cfg); err == nil {
		t.Fatalf("expected error without bucket")
	}
	cfg.S3Bucket = "b"
	cfg.Region = "us-east-1"
	if err := ValidateForPublish(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
