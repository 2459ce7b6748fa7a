package orchestrator

import (
	"context"
	"errors"
	"strings"

	"newsreader/internal/ai"
	"newsreader/internal/news"
	"newsreader/internal/stream"
)

// Summarize streams a summary shaped by s.SummaryLength. Always uses the fast model.
func (o *Orchestrator) Summarize(ctx context.Context, a news.Article, s news.Settings) stream.Text {
	req := o.quick()
	req.System = newsroomSystem
	req.Prompt = withArticle(summaryInstruction(s.SummaryLength), a)
	return o.streamText(ctx, opSummarize, req)
}

// ExplainSimply streams a child-friendly explanation. Always uses the fast model.
func (o *Orchestrator) ExplainSimply(ctx context.Context, a news.Article, s news.Settings) stream.Text {
	req := o.quick()
	req.System = newsroomSystem
	req.Prompt = explainPrompt(a)
	return o.streamText(ctx, opExplain, req)
}

func (o *Orchestrator) GenerateCounterpoint(ctx context.Context, a news.Article, s news.Settings) stream.Text {
	req := o.tiered(s)
	req.System = newsroomSystem
	req.Prompt = counterpointPrompt(a)
	return o.streamText(ctx, opCounterpoint, req)
}

// GenerateBehindTheNews streams Markdown with Historical Context, Key Players and
// Broader Implications sections.
func (o *Orchestrator) GenerateBehindTheNews(ctx context.Context, a news.Article, s news.Settings) stream.Text {
	req := o.tiered(s)
	req.System = newsroomSystem
	req.Prompt = behindTheNewsPrompt(a)
	return o.streamText(ctx, opBehindTheNews, req)
}

// GenerateExpertAnalysis streams Markdown analysis from persona. Unknown
// personas fail before any request is made.
func (o *Orchestrator) GenerateExpertAnalysis(ctx context.Context, a news.Article, persona string, s news.Settings) stream.Text {
	p, err := news.ParsePersona(persona)
	if err != nil {
		return stream.Fail(&UserError{Op: opExpert, Message: "Please choose one of the available experts.", Err: err})
	}
	req := o.tiered(s)
	req.System = expertSystem(p)
	req.Prompt = expertPrompt(a, p)
	return o.streamText(ctx, opExpert, req)
}

// AskAboutArticle answers question using only the article. history holds the
// earlier turns of the same conversation.
func (o *Orchestrator) AskAboutArticle(ctx context.Context, a news.Article, question string, history []news.ChatMessage, s news.Settings) stream.Text {
	question = strings.TrimSpace(question)
	if question == "" {
		return stream.Fail(&UserError{Op: opAsk, Message: "Please enter a question.", Err: errors.New("empty question")})
	}
	req := o.tiered(s)
	req.System = askSystem(a)
	req.Prompt = question
	req.History = chatHistory(history)
	return o.streamText(ctx, opAsk, req)
}

// GenerateAuthorResponse role-plays the article's byline author.
func (o *Orchestrator) GenerateAuthorResponse(ctx context.Context, a news.Article, question string, s news.Settings) stream.Text {
	question = strings.TrimSpace(question)
	if question == "" {
		return stream.Fail(&UserError{Op: opAuthor, Message: "Please enter a question for the author.", Err: errors.New("empty question")})
	}
	req := o.tiered(s)
	req.System = authorSystem(a)
	req.Prompt = question
	return o.streamText(ctx, opAuthor, req)
}

// TranslateArticle returns text translated into language. Always uses the fast model.
func (o *Orchestrator) TranslateArticle(ctx context.Context, text, language string, s news.Settings) (string, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return "", &UserError{Op: opTranslate, Message: "Please choose a language.", Err: errors.New("empty target language")}
	}
	req := o.quick()
	req.Prompt = translatePrompt(text, language)
	out, err := o.generate(ctx, opTranslate, req)
	if err != nil {
		return "", o.fail(opTranslate, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", o.fail(opTranslate, errEmptyResponse)
	}
	return out, nil
}

// ApplyReadingLens rewrites text through lens. LensNone returns text untouched
// without calling the model.
func (o *Orchestrator) ApplyReadingLens(ctx context.Context, text string, lens news.Lens, s news.Settings) (string, error) {
	if lens == news.LensNone || lens == "" {
		return text, nil
	}
	if _, ok := lensInstructions[lens]; !ok {
		return "", &UserError{Op: opLens, Message: "Please choose a supported reading lens.", Err: news.ErrUnknownLens}
	}
	req := o.quick()
	req.Prompt = lensPrompt(text, lens)
	out, err := o.generate(ctx, opLens, req)
	if err != nil {
		return "", o.fail(opLens, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", o.fail(opLens, errEmptyResponse)
	}
	return out, nil
}

// GenerateNewsBriefing writes an anchor script covering articles in order.
func (o *Orchestrator) GenerateNewsBriefing(ctx context.Context, articles []news.Article, s news.Settings) (string, error) {
	if len(articles) == 0 {
		return "", &UserError{Op: opBriefing, Message: "There are no stories to brief yet.", Err: errors.New("no articles")}
	}
	req := o.tiered(s)
	req.Prompt = briefingPrompt(articles)
	out, err := o.generate(ctx, opBriefing, req)
	if err != nil {
		return "", o.fail(opBriefing, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", o.fail(opBriefing, errors.New("empty briefing"))
	}
	return out, nil
}

func chatHistory(history []news.ChatMessage) []ai.Message {
	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		role := ai.RoleUser
		if m.Role == news.ChatModel {
			role = ai.RoleModel
		}
		out = append(out, ai.Message{Role: role, Content: m.Content})
	}
	return out
}
