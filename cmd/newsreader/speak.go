package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cfgpkg "newsreader/internal/config"
	"newsreader/internal/news"
	"newsreader/internal/paths"
)

// newsreader speak
func cmdSpeak(args []string) error {
	var cf commonFlags
	var articleID int
	var text, out string
	var voice stringFlag
	var overwrite boolFlag
	fs := flag.NewFlagSet("speak", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.IntVar(&articleID, "article", 0, "Article ID to read aloud")
	fs.StringVar(&text, "text", "", "Text to read aloud (instead of --article)")
	fs.Var(&voice, "voice", "Reader voice: Kore, Puck, Charon, Fenrir, Zephyr")
	fs.StringVar(&out, "out", "speech.mp3", "Output MP3 path")
	fs.Var(&overwrite, "overwrite", "Allow overwriting an existing output file")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	if (articleID > 0) == (strings.TrimSpace(text) != "") {
		return errors.New("exactly one of --article or --text is required")
	}
	cfg, err := loadConfig(cf, cfgpkg.Overrides{Voice: voice.ptr(), Overwrite: overwrite.ptr()})
	if err != nil {
		return err
	}
	if articleID > 0 {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		a, err := cat.Get(articleID)
		if err != nil {
			return fmt.Errorf("--article: %w", err)
		}
		text = a.Title + ".\n\n" + news.PlainText(a.Content)
	}
	if err := paths.CheckOverwrite([]string{out}, cfg.Overwrite); err != nil {
		return err
	}
	orc, err := newOrchestrator(cfg, true)
	if err != nil {
		return err
	}

	speech, err := orc.TextToSpeech(context.Background(), text, "", cfg.Settings())
	if err != nil {
		return err
	}
	if err := writeAudio(out, speech.Audio); err != nil {
		return err
	}
	slog.Info(
		"speech generated",
		"voice", speech.Voice,
		"providerVoice", speech.ProviderVoice,
		"ttsProvider", ttsProvider(cfg),
		"truncated", speech.Truncated,
		"path", out,
	)
	return nil
}

// writeAudio decodes base64 MP3 audio to path, creating parent directories.
func writeAudio(path, encoded string) error {
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, audio, 0o644)
}
