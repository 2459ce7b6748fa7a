package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsreader/internal/ai"
	"newsreader/internal/news"
)

const (
	maxTags      = 5
	maxTakeaways = 4
	maxRelated   = 3
	maxFeed      = 5
)

func object(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func arrayOf(items map[string]any, description string) map[string]any {
	return map[string]any{"type": "array", "items": items, "description": description}
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func enum[T ~string](values []T, description string) map[string]any {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return map[string]any{"type": "string", "enum": out, "description": description}
}

var (
	tagsSchema = ai.Schema{Name: "article_tags", Definition: object(map[string]any{
		"tags": arrayOf(str("Short topical tag"), "Up to 5 tags"),
	})}
	takeawaysSchema = ai.Schema{Name: "key_takeaways", Definition: object(map[string]any{
		"takeaways": arrayOf(str("One-sentence takeaway"), "3 or 4 takeaways"),
	})}
	timelineSchema = ai.Schema{Name: "article_timeline", Definition: object(map[string]any{
		"events": arrayOf(object(map[string]any{
			"year":        str("Year or date of the event"),
			"description": str("One-sentence description"),
		}), "Chronological events"),
	})}
	quizSchema = ai.Schema{Name: "article_quiz", Definition: object(map[string]any{
		"questions": arrayOf(object(map[string]any{
			"question":      str("Question text"),
			"options":       arrayOf(str("Answer option"), "Exactly 4 options"),
			"correctAnswer": str("The correct option, verbatim"),
		}), "Quiz questions"),
	})}
	conceptsSchema = ai.Schema{Name: "key_concepts", Definition: object(map[string]any{
		"concepts": arrayOf(object(map[string]any{
			"term":        str("Name of the concept"),
			"type":        enum(news.ConceptTypes, "Kind of concept"),
			"description": str("One-sentence explanation"),
		}), "Key concepts"),
	})}
	idsSchema = ai.Schema{Name: "article_ids", Definition: object(map[string]any{
		"ids": arrayOf(map[string]any{"type": "integer"}, "Article IDs, best first"),
	})}
)

func withSchema(req ai.Request, schema ai.Schema) ai.Request {
	req.Schema = &schema
	return req
}

// GenerateTags returns up to 5 topical tags, or nil on failure.
func (o *Orchestrator) GenerateTags(ctx context.Context, a news.Article, s news.Settings) []string {
	req := withSchema(o.tiered(s), tagsSchema)
	req.Prompt = tagsPrompt(a)
	out, err := generateJSON[struct {
		Tags []string `json:"tags"`
	}](ctx, o, opTags, req)
	if err != nil {
		o.soft(opTags, err)
		return nil
	}
	return cleanStrings(out.Tags, maxTags)
}

// GenerateKeyTakeaways returns 3 or 4 takeaways, or nil on failure.
func (o *Orchestrator) GenerateKeyTakeaways(ctx context.Context, a news.Article, s news.Settings) []string {
	req := withSchema(o.tiered(s), takeawaysSchema)
	req.Prompt = takeawaysPrompt(a)
	out, err := generateJSON[struct {
		Takeaways []string `json:"takeaways"`
	}](ctx, o, opTakeaways, req)
	if err != nil {
		o.soft(opTakeaways, err)
		return nil
	}
	return cleanStrings(out.Takeaways, maxTakeaways)
}

// GenerateArticleTimeline returns the story's background events, or nil on failure.
func (o *Orchestrator) GenerateArticleTimeline(ctx context.Context, a news.Article, s news.Settings) []news.TimelineEvent {
	req := withSchema(o.tiered(s), timelineSchema)
	req.Prompt = timelinePrompt(a)
	out, err := generateJSON[struct {
		Events []news.TimelineEvent `json:"events"`
	}](ctx, o, opTimeline, req)
	if err != nil {
		o.soft(opTimeline, err)
		return nil
	}
	events := make([]news.TimelineEvent, 0, len(out.Events))
	for _, e := range out.Events {
		e.Year = strings.TrimSpace(e.Year)
		e.Description = strings.TrimSpace(e.Description)
		if e.Year == "" || e.Description == "" {
			continue
		}
		events = append(events, e)
	}
	return events
}

// GenerateQuiz fails hard, including when the response is not a well-formed quiz.
func (o *Orchestrator) GenerateQuiz(ctx context.Context, a news.Article, s news.Settings) ([]news.QuizQuestion, error) {
	req := withSchema(o.tiered(s), quizSchema)
	req.Prompt = quizPrompt(a)
	out, err := generateJSON[struct {
		Questions []news.QuizQuestion `json:"questions"`
	}](ctx, o, opQuiz, req)
	if err != nil {
		return nil, o.fail(opQuiz, err)
	}
	if len(out.Questions) == 0 {
		return nil, o.fail(opQuiz, errors.New("quiz has no questions"))
	}
	for i, q := range out.Questions {
		if !q.Valid() {
			return nil, o.fail(opQuiz, fmt.Errorf("quiz question %d is malformed", i+1))
		}
	}
	return out.Questions, nil
}

// ExtractKeyConcepts returns the article's key concepts; entries with an
// unsupported type are dropped. Returns nil on failure.
func (o *Orchestrator) ExtractKeyConcepts(ctx context.Context, a news.Article, s news.Settings) []news.KeyConcept {
	req := withSchema(o.tiered(s), conceptsSchema)
	req.Prompt = conceptsPrompt(a)
	out, err := generateJSON[struct {
		Concepts []struct {
			Term        string `json:"term"`
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"concepts"`
	}](ctx, o, opConcepts, req)
	if err != nil {
		o.soft(opConcepts, err)
		return nil
	}
	concepts := make([]news.KeyConcept, 0, len(out.Concepts))
	for _, c := range out.Concepts {
		typ, ok := news.ParseConceptType(c.Type)
		if !ok || strings.TrimSpace(c.Term) == "" {
			continue
		}
		concepts = append(concepts, news.KeyConcept{
			Term:        strings.TrimSpace(c.Term),
			Type:        typ,
			Description: strings.TrimSpace(c.Description),
		})
	}
	return concepts
}

// FindRelatedArticles asks the model to pick up to 3 related candidates. The
// result never contains a.ID and only contains candidate IDs.
func (o *Orchestrator) FindRelatedArticles(ctx context.Context, a news.Article, candidates []news.Article, s news.Settings) []int {
	pool := excluding(candidates, map[int]bool{a.ID: true})
	if len(pool) == 0 {
		return nil
	}
	req := withSchema(o.tiered(s), idsSchema)
	req.Prompt = relatedPrompt(a, pool)
	ids, err := o.pickIDs(ctx, opRelated, req)
	if err != nil {
		o.soft(opRelated, err)
		return nil
	}
	return filterIDs(ids, pool, maxRelated)
}

// GeneratePersonalizedFeed ranks articles the reader has not bookmarked against
// an interest summary built from bookmarks and preferred categories.
func (o *Orchestrator) GeneratePersonalizedFeed(ctx context.Context, bookmarked, all []news.Article, s news.Settings) []int {
	interests := interestSummary(bookmarked, s)
	if interests == "" {
		return nil
	}
	seen := make(map[int]bool, len(bookmarked))
	for _, b := range bookmarked {
		seen[b.ID] = true
	}
	pool := excluding(all, seen)
	if len(pool) == 0 {
		return nil
	}
	req := withSchema(o.tiered(s), idsSchema)
	req.Prompt = feedPrompt(interests, pool)
	ids, err := o.pickIDs(ctx, opFeed, req)
	if err != nil {
		o.soft(opFeed, err)
		return nil
	}
	return filterIDs(ids, pool, maxFeed)
}

func (o *Orchestrator) pickIDs(ctx context.Context, op string, req ai.Request) ([]int, error) {
	out, err := generateJSON[struct {
		IDs []int `json:"ids"`
	}](ctx, o, op, req)
	return out.IDs, err
}

func excluding(articles []news.Article, skip map[int]bool) []news.Article {
	out := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		if !skip[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// filterIDs keeps IDs present in pool, in order, without duplicates, up to limit.
func filterIDs(ids []int, pool []news.Article, limit int) []int {
	allowed := make(map[int]bool, len(pool))
	for _, a := range pool {
		allowed[a.ID] = true
	}
	out := make([]int, 0, limit)
	for _, id := range ids {
		if !allowed[id] {
			continue
		}
		allowed[id] = false
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}

func cleanStrings(in []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
