package orchestrator

import (
	"context"
	"errors"
	"strings"

	"newsreader/internal/news"
)

// FactCheckFallbackSummary is reported when the verdict carries no explanation.
const FactCheckFallbackSummary = "The fact-check did not return a usable explanation, so this article is treated as unverified."

// FactCheckArticle grounds a verdict with web search. It returns nil on failure.
func (o *Orchestrator) FactCheckArticle(ctx context.Context, a news.Article, s news.Settings) *news.FactCheck {
	req := o.tiered(s)
	req.System = newsroomSystem
	req.Prompt = factCheckPrompt(a)
	req.WebSearch = true
	text, err := o.generate(ctx, opFactCheck, req)
	if err != nil {
		o.soft(opFactCheck, err)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		o.soft(opFactCheck, errors.New("empty response"))
		return nil
	}
	fc := ParseFactCheck(text)
	return &fc
}

// ParseFactCheck reads the two-line STATUS:/SUMMARY: format. Unknown or missing
// statuses become Unverified; a missing summary becomes FactCheckFallbackSummary.
func ParseFactCheck(text string) news.FactCheck {
	fc := news.FactCheck{Status: news.FactUnverified}
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "*_ ")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), "*_ ")
		switch strings.ToUpper(strings.Trim(key, "*_ ")) {
		case "STATUS":
			fc.Status = news.ParseFactStatus(strings.TrimSuffix(value, "."))
		case "SUMMARY":
			if fc.Summary == "" {
				fc.Summary = value
			}
		}
	}
	if fc.Summary == "" {
		fc.Summary = FactCheckFallbackSummary
	}
	return fc
}
