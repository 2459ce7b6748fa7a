package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"newsreader/internal/catalog"
	cfgpkg "newsreader/internal/config"
	"newsreader/internal/news"
	"newsreader/internal/orchestrator"
)

var insightTasks = []string{"tags", "factcheck", "quiz", "related", "takeaways", "timeline", "concepts", "feed"}

// newsreader insight
func cmdInsight(args []string) error {
	var cf commonFlags
	var task string
	var articleID int
	var bookmarks intListFlag
	var preference stringFlag
	fs := flag.NewFlagSet("insight", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.StringVar(&task, "task", "tags", "One of: "+strings.Join(insightTasks, ", "))
	fs.IntVar(&articleID, "article", 0, "Article ID (not used by --task feed)")
	fs.Var(&bookmarks, "bookmarks", "Comma-separated bookmarked article IDs for --task feed")
	fs.Var(&preference, "model-preference", "Model preference: Speed or Quality")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	cfg, err := loadConfig(cf, cfgpkg.Overrides{ModelPreference: preference.ptr()})
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	orc, err := newOrchestrator(cfg, false)
	if err != nil {
		return err
	}

	out, err := runInsight(context.Background(), orc, cat, task, articleID, bookmarks.ids, cfg.Settings())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runInsight(ctx context.Context, orc *orchestrator.Orchestrator, cat *catalog.Catalog, task string, articleID int, bookmarks []int, s news.Settings) (any, error) {
	if task == "feed" {
		return orc.GeneratePersonalizedFeed(ctx, cat.Lookup(bookmarks), cat.All(), s), nil
	}
	a, err := cat.Get(articleID)
	if err != nil {
		return nil, fmt.Errorf("--article: %w", err)
	}
	switch task {
	case "tags":
		return orc.GenerateTags(ctx, a, s), nil
	case "factcheck":
		return orc.FactCheckArticle(ctx, a, s), nil
	case "quiz":
		return orc.GenerateQuiz(ctx, a, s)
	case "related":
		return orc.FindRelatedArticles(ctx, a, cat.Except(a.ID), s), nil
	case "takeaways":
		return orc.GenerateKeyTakeaways(ctx, a, s), nil
	case "timeline":
		return orc.GenerateArticleTimeline(ctx, a, s), nil
	case "concepts":
		return orc.ExtractKeyConcepts(ctx, a, s), nil
	default:
		return nil, fmt.Errorf("unknown --task %q (want one of %s)", task, strings.Join(insightTasks, ", "))
	}
}
