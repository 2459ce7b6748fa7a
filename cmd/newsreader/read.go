package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	cfgpkg "newsreader/internal/config"
	"newsreader/internal/news"
	"newsreader/internal/orchestrator"
	"newsreader/internal/stream"
)

var readTasks = []string{"summarize", "explain", "counterpoint", "context", "expert", "author", "ask", "translate", "lens"}

// newsreader read
func cmdRead(args []string) error {
	var cf commonFlags
	var task, persona, question, language, lens string
	var articleID int
	var length, preference stringFlag
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.StringVar(&task, "task", "summarize", "One of: "+strings.Join(readTasks, ", "))
	fs.IntVar(&articleID, "article", 0, "Article ID")
	fs.StringVar(&persona, "persona", "", "Expert persona for --task expert")
	fs.StringVar(&question, "question", "", "Question for --task ask or author")
	fs.StringVar(&language, "language", "", "Target language for --task translate")
	fs.StringVar(&lens, "lens", "", "Reading lens for --task lens (Simplify, DefineTerms)")
	fs.Var(&length, "summary-length", "Summary length: Short, Medium, Detailed")
	fs.Var(&preference, "model-preference", "Model preference: Speed or Quality")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	cfg, err := loadConfig(cf, cfgpkg.Overrides{SummaryLength: length.ptr(), ModelPreference: preference.ptr()})
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	a, err := cat.Get(articleID)
	if err != nil {
		return fmt.Errorf("--article: %w", err)
	}
	orc, err := newOrchestrator(cfg, false)
	if err != nil {
		return err
	}

	ctx := context.Background()
	settings := cfg.Settings()
	start := time.Now()
	slog.Info("read start", "task", task, "article", a.ID, "tier", orchestrator.SelectTier(settings))

	var seq stream.Text
	switch task {
	case "summarize":
		seq = orc.Summarize(ctx, a, settings)
	case "explain":
		seq = orc.ExplainSimply(ctx, a, settings)
	case "counterpoint":
		seq = orc.GenerateCounterpoint(ctx, a, settings)
	case "context":
		seq = orc.GenerateBehindTheNews(ctx, a, settings)
	case "expert":
		if _, err := news.ParsePersona(persona); err != nil {
			return err
		}
		seq = orc.GenerateExpertAnalysis(ctx, a, persona, settings)
	case "author", "ask":
		if strings.TrimSpace(question) == "" {
			return errors.New("--question is required for --task " + task)
		}
		if task == "author" {
			seq = orc.GenerateAuthorResponse(ctx, a, question, settings)
		} else {
			seq = orc.AskAboutArticle(ctx, a, question, nil, settings)
		}
	case "translate":
		out, err := orc.TranslateArticle(ctx, news.PlainText(a.Content), language, settings)
		if err != nil {
			return err
		}
		seq = stream.Of(out)
	case "lens":
		l, err := news.ParseLens(lens)
		if err != nil {
			return err
		}
		out, err := orc.ApplyReadingLens(ctx, news.PlainText(a.Content), l, settings)
		if err != nil {
			return err
		}
		seq = stream.Of(out)
	default:
		return fmt.Errorf("unknown --task %q (want one of %s)", task, strings.Join(readTasks, ", "))
	}

	chars := 0
	for chunk, err := range seq {
		if err != nil {
			fmt.Fprintln(stdout)
			return err
		}
		chars += len(chunk)
		fmt.Fprint(stdout, chunk)
	}
	fmt.Fprintln(stdout)
	slog.Info("read done", "task", task, "article", a.ID, "chars", chars, "elapsed", time.Since(start).String())
	return nil
}
