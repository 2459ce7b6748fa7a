package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"newsreader/internal/briefing"
	cfgpkg "newsreader/internal/config"
	"newsreader/internal/orchestrator"
	"newsreader/internal/paths"
	"newsreader/internal/server"
)

// newsreader briefing
func cmdBriefing(args []string) error {
	var cf commonFlags
	var date string
	var ids intListFlag
	var withAudio bool
	var overwrite boolFlag
	var voice, preference, outDir stringFlag
	fs := flag.NewFlagSet("briefing", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.StringVar(&date, "date", "", "Date in YYYY-MM-DD (UTC); default: today")
	fs.Var(&ids, "articles", fmt.Sprintf("Comma-separated article IDs; default: top %d visible articles", server.BriefingSize))
	fs.BoolVar(&withAudio, "audio", false, "Also synthesize briefing.mp3")
	fs.Var(&overwrite, "overwrite", "Allow overwriting existing outputs")
	fs.Var(&voice, "voice", "Reader voice for --audio")
	fs.Var(&preference, "model-preference", "Model preference: Speed or Quality")
	fs.Var(&outDir, "out-dir", "Output base directory")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	day, err := paths.ParseDate(date, time.Now())
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cf, cfgpkg.Overrides{
		Voice:           voice.ptr(),
		ModelPreference: preference.ptr(),
		OutDir:          outDir.ptr(),
		Overwrite:       overwrite.ptr(),
	})
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	settings := cfg.Settings()

	articles := cat.Top(server.BriefingSize, settings)
	if len(ids.ids) > 0 {
		articles = cat.Lookup(ids.ids)
		if len(articles) != len(ids.ids) {
			return fmt.Errorf("--articles: unknown article id in %s", ids.String())
		}
	}

	builder := paths.New(cfg.OutDir)
	mdPath := builder.BriefingScript(day)
	metaPath := builder.BriefingMeta(day)
	mp3Path := builder.BriefingAudio(day)
	targets := []string{mdPath, metaPath}
	if withAudio {
		targets = append(targets, mp3Path)
	}
	if err := paths.CheckOverwrite(targets, cfg.Overwrite); err != nil {
		return err
	}
	orc, err := newOrchestrator(cfg, withAudio)
	if err != nil {
		return err
	}
	ctx := context.Background()

	slog.Info("briefing start", "date", day.Format(time.DateOnly), "articles", len(articles), "tier", orchestrator.SelectTier(settings))
	script, err := orc.GenerateNewsBriefing(ctx, articles, settings)
	if err != nil {
		return err
	}
	b := briefing.Briefing{Date: day, Script: script, Stories: articles}
	if err := b.Validate(); err != nil {
		return err
	}
	if err := builder.EnsureOutDir(day); err != nil {
		return err
	}
	if err := os.WriteFile(mdPath, []byte(b.RenderMarkdown()), 0o644); err != nil {
		return err
	}

	meta := b.Meta(string(orchestrator.SelectTier(settings)))
	if withAudio {
		speech, err := orc.TextToSpeech(ctx, script, "", settings)
		if err != nil {
			return err
		}
		if err := writeAudio(mp3Path, speech.Audio); err != nil {
			return err
		}
		meta.Audio = true
		meta.Voice = speech.Voice
		meta.Truncated = speech.Truncated
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return err
	}

	slog.Info(
		"briefing generated",
		"date", meta.Date,
		"articles", meta.ArticleIDs,
		"wordCount", meta.WordCount,
		"tier", meta.Tier,
		"audio", meta.Audio,
		"path", mdPath,
	)
	return nil
}
