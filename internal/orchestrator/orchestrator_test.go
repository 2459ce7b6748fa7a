package orchestrator

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"newsreader/internal/news"
	"newsreader/internal/stream"
)

func TestSelectTier(t *testing.T) {
	if SelectTier(speed()) != TierFast {
		t.Fatalf("Speed must select the fast tier")
	}
	if SelectTier(quality()) != TierQuality {
		t.Fatalf("Quality must select the quality tier")
	}
	if SelectTier(news.Settings{}) != TierFast {
		t.Fatalf("unset preference must select the fast tier")
	}
}

// complexTasks runs every preference-honouring operation once.
var complexTasks = map[string]func(o *Orchestrator, s news.Settings){
	"counterpoint": func(o *Orchestrator, s news.Settings) {
		_, _ = stream.Collect(o.GenerateCounterpoint(context.Background(), testArticle, s))
	},
	"behind": func(o *Orchestrator, s news.Settings) {
		_, _ = stream.Collect(o.GenerateBehindTheNews(context.Background(), testArticle, s))
	},
	"expert": func(o *Orchestrator, s news.Settings) {
		_, _ = stream.Collect(o.GenerateExpertAnalysis(context.Background(), testArticle, "Economist", s))
	},
	"author": func(o *Orchestrator, s news.Settings) {
		_, _ = stream.Collect(o.GenerateAuthorResponse(context.Background(), testArticle, "Why?", s))
	},
	"ask": func(o *Orchestrator, s news.Settings) {
		_, _ = stream.Collect(o.AskAboutArticle(context.Background(), testArticle, "When?", nil, s))
	},
	"concepts": func(o *Orchestrator, s news.Settings) { o.ExtractKeyConcepts(context.Background(), testArticle, s) },
	"quiz":     func(o *Orchestrator, s news.Settings) { _, _ = o.GenerateQuiz(context.Background(), testArticle, s) },
	"factcheck": func(o *Orchestrator, s news.Settings) {
		o.FactCheckArticle(context.Background(), testArticle, s)
	},
	"feed": func(o *Orchestrator, s news.Settings) {
		o.GeneratePersonalizedFeed(context.Background(), []news.Article{testArticle}, []news.Article{testArticle, {ID: 2, Title: "x"}}, s)
	},
}

func TestComplexTasksHonourPreference(t *testing.T) {
	for name, run := range complexTasks {
		gen := &fakeGenerator{text: "{}", chunks: []string{"ok"}}
		o := newTestOrchestrator(gen, nil)

		run(o, speed())
		if req := gen.last(); req.Model != "fast-model" || req.Reasoning {
			t.Fatalf("%s with Speed: model=%s reasoning=%v", name, req.Model, req.Reasoning)
		}
		run(o, quality())
		if req := gen.last(); req.Model != "quality-model" || !req.Reasoning {
			t.Fatalf("%s with Quality: model=%s reasoning=%v", name, req.Model, req.Reasoning)
		}
	}
}

func TestFastTasksIgnorePreference(t *testing.T) {
	gen := &fakeGenerator{text: "translated", chunks: []string{"ok"}}
	o := newTestOrchestrator(gen, nil)
	ctx := context.Background()
	s := quality()

	_, _ = stream.Collect(o.Summarize(ctx, testArticle, s))
	_, _ = stream.Collect(o.ExplainSimply(ctx, testArticle, s))
	_, _ = o.TranslateArticle(ctx, "hola", "English", s)
	_, _ = o.ApplyReadingLens(ctx, "text", news.LensSimplify, s)

	if gen.calls() != 4 {
		t.Fatalf("expected 4 calls, got %d", gen.calls())
	}
	for _, req := range gen.requests {
		if req.Model != "fast-model" || req.Reasoning {
			t.Fatalf("fast task used model=%s reasoning=%v", req.Model, req.Reasoning)
		}
	}
}

func TestSummarizeTemplateByLength(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"x"}}
	o := newTestOrchestrator(gen, nil)
	cases := map[news.SummaryLength]string{
		news.SummaryShort:    "single sentence",
		news.SummaryMedium:   "bullet points",
		news.SummaryDetailed: "3 to 4 paragraphs",
	}
	for length, want := range cases {
		s := speed()
		s.SummaryLength = length
		_, _ = stream.Collect(o.Summarize(context.Background(), testArticle, s))
		if !strings.Contains(gen.last().Prompt, want) {
			t.Fatalf("%s summary prompt missing %q", length, want)
		}
	}
}

func TestSummarizeMediumStreamsBulletList(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"- The council", " voted 31 to 9.\n", "- Routes start", " in March.\n"}}
	o := newTestOrchestrator(gen, nil)
	s := speed()
	s.SummaryLength = news.SummaryMedium

	text, err := stream.Collect(o.Summarize(context.Background(), testArticle, s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 bullets, got %q", text)
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "-") {
			t.Fatalf("line not a bullet: %q", l)
		}
	}
	if !strings.Contains(gen.last().Prompt, "The council voted 31 to 9.") {
		t.Fatalf("article body not converted into prompt: %q", gen.last().Prompt)
	}
}

func TestStreamFailureKeepsPartialText(t *testing.T) {
	boom := errors.New("quota")
	gen := &fakeGenerator{chunks: []string{"Partial"}, err: boom}
	o := newTestOrchestrator(gen, nil)

	text, err := stream.Collect(o.GenerateCounterpoint(context.Background(), testArticle, speed()))
	if text != "Partial" {
		t.Fatalf("expected partial text, got %q", text)
	}
	var ue *UserError
	if !errors.As(err, &ue) || !errors.Is(err, boom) {
		t.Fatalf("expected UserError wrapping cause, got %v", err)
	}
	if ue.Message != userMessages[opCounterpoint] {
		t.Fatalf("unexpected message: %q", ue.Message)
	}
}

func TestTextToSpeechFallsBackToDefaultVoice(t *testing.T) {
	tts := &fakeTTS{}
	o := newTestOrchestrator(&fakeGenerator{}, tts)

	sp, err := o.TextToSpeech(context.Background(), "Hello readers.", "NotAVoice", speed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Voice != news.DefaultVoice || tts.voice != OpenAIVoices[news.DefaultVoice] {
		t.Fatalf("expected default voice, got %s / %s", sp.Voice, tts.voice)
	}
	if tts.model != "speech-model" {
		t.Fatalf("unexpected speech model: %s", tts.model)
	}
	raw, err := base64.StdEncoding.DecodeString(sp.Audio)
	if err != nil || string(raw) != "mp3bytes" {
		t.Fatalf("audio not base64 mp3: %q %v", raw, err)
	}
	if sp.Truncated {
		t.Fatalf("short text must not be truncated")
	}
}

func TestTextToSpeechUsesSettingsVoiceAndMapping(t *testing.T) {
	tts := &fakeTTS{}
	o := New(&fakeGenerator{}, tts, Options{Voices: map[news.Voice]string{news.VoicePuck: "voice-id-puck"}})
	s := speed()
	s.TTSVoice = news.VoicePuck
	sp, err := o.TextToSpeech(context.Background(), "Hi", "", s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Voice != news.VoicePuck || tts.voice != "voice-id-puck" {
		t.Fatalf("expected configured mapping, got %s / %s", sp.Voice, tts.voice)
	}
}

func TestTextToSpeechReportsTruncation(t *testing.T) {
	tts := &fakeTTS{}
	o := newTestOrchestrator(&fakeGenerator{}, tts)
	long := strings.Repeat("a", MaxSpeechChars+10)
	sp, err := o.TextToSpeech(context.Background(), long, "Kore", speed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sp.Truncated || len(tts.text) != MaxSpeechChars {
		t.Fatalf("expected truncation to %d, got %d (flag %v)", MaxSpeechChars, len(tts.text), sp.Truncated)
	}
}

func TestTextToSpeechFailsHard(t *testing.T) {
	o := newTestOrchestrator(&fakeGenerator{}, &fakeTTS{err: errors.New("down")})
	_, err := o.TextToSpeech(context.Background(), "Hi", "Kore", speed())
	var ue *UserError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UserError, got %v", err)
	}
}

func TestParseFactCheck(t *testing.T) {
	fc := ParseFactCheck("STATUS: Verified\nSUMMARY: Council records confirm the vote.")
	if fc.Status != news.FactVerified || fc.Summary != "Council records confirm the vote." {
		t.Fatalf("unexpected parse: %+v", fc)
	}
	fc = ParseFactCheck("**STATUS:** mixed.")
	if fc.Status != news.FactMixed || fc.Summary != FactCheckFallbackSummary {
		t.Fatalf("missing summary must fall back: %+v", fc)
	}
	fc = ParseFactCheck("I could not determine anything.")
	if fc.Status != news.FactUnverified || fc.Summary != FactCheckFallbackSummary {
		t.Fatalf("malformed response must default: %+v", fc)
	}
	fc = ParseFactCheck("STATUS: Probably\nSUMMARY: Unclear sourcing.")
	if fc.Status != news.FactUnverified || fc.Summary != "Unclear sourcing." {
		t.Fatalf("unknown status must be Unverified: %+v", fc)
	}
}

func TestFactCheckArticle(t *testing.T) {
	gen := &fakeGenerator{text: "STATUS: Mixed\nSUMMARY: Some figures differ."}
	o := newTestOrchestrator(gen, nil)
	fc := o.FactCheckArticle(context.Background(), testArticle, speed())
	if fc == nil || fc.Status != news.FactMixed {
		t.Fatalf("unexpected fact check: %+v", fc)
	}
	if !gen.last().WebSearch {
		t.Fatalf("fact check must enable web search")
	}

	gen.err = errors.New("network")
	if fc := o.FactCheckArticle(context.Background(), testArticle, speed()); fc != nil {
		t.Fatalf("expected nil on failure, got %+v", fc)
	}
}

func TestFindRelatedArticles(t *testing.T) {
	gen := &fakeGenerator{text: `{"ids":[1,4,4,99,2,3,5]}`}
	o := newTestOrchestrator(gen, nil)
	candidates := []news.Article{testArticle, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}

	ids := o.FindRelatedArticles(context.Background(), testArticle, candidates, speed())
	if len(ids) != 3 || ids[0] != 4 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("unexpected related ids: %v", ids)
	}
	if strings.Contains(gen.last().Prompt, "ID 1:") {
		t.Fatalf("current article offered as candidate")
	}

	gen.text = "not json"
	if ids := o.FindRelatedArticles(context.Background(), testArticle, candidates, speed()); len(ids) != 0 {
		t.Fatalf("expected empty on malformed response, got %v", ids)
	}
}

func TestGeneratePersonalizedFeed(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"ids\":[2,3,4,5,6,7,1]}\n```"}
	o := newTestOrchestrator(gen, nil)
	all := []news.Article{testArticle, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}, {ID: 7}}

	ids := o.GeneratePersonalizedFeed(context.Background(), []news.Article{testArticle}, all, speed())
	if len(ids) != 5 || ids[0] != 2 {
		t.Fatalf("unexpected feed: %v", ids)
	}
	for _, id := range ids {
		if id == testArticle.ID {
			t.Fatalf("feed returned a bookmarked article")
		}
	}
	if !strings.Contains(gen.last().Prompt, testArticle.Title) {
		t.Fatalf("interest summary missing bookmark title")
	}

	calls := gen.calls()
	if ids := o.GeneratePersonalizedFeed(context.Background(), nil, all, speed()); ids != nil || gen.calls() != calls {
		t.Fatalf("no interests must short-circuit, got %v", ids)
	}
}

func TestGenerateQuiz(t *testing.T) {
	gen := &fakeGenerator{text: `{"questions":[{"question":"How many routes?","options":["10","12","14","16"],"correctAnswer":"12"}]}`}
	o := newTestOrchestrator(gen, nil)
	quiz, err := o.GenerateQuiz(context.Background(), testArticle, speed())
	if err != nil || len(quiz) != 1 || quiz[0].CorrectAnswer != "12" {
		t.Fatalf("unexpected quiz: %+v %v", quiz, err)
	}
	if gen.last().Schema == nil || gen.last().Schema.Name != quizSchema.Name {
		t.Fatalf("quiz must request the quiz schema")
	}
}

func TestGenerateQuizMalformed(t *testing.T) {
	for _, body := range []string{
		`{"questions":[{"question":"Q","options":["a","b"]`,
		`{"questions":[]}`,
		`{"questions":[{"question":"Q","options":["a","b","c"],"correctAnswer":"a"}]}`,
	} {
		o := newTestOrchestrator(&fakeGenerator{text: body}, nil)
		quiz, err := o.GenerateQuiz(context.Background(), testArticle, speed())
		var ue *UserError
		if !errors.As(err, &ue) || quiz != nil {
			t.Fatalf("body %q: expected UserError and no quiz, got %+v %v", body, quiz, err)
		}
	}
}

func TestSoftFailuresReturnEmpty(t *testing.T) {
	o := newTestOrchestrator(&fakeGenerator{err: errors.New("down")}, nil)
	ctx := context.Background()
	if got := o.GenerateTags(ctx, testArticle, speed()); got != nil {
		t.Fatalf("tags: %v", got)
	}
	if got := o.GenerateKeyTakeaways(ctx, testArticle, speed()); got != nil {
		t.Fatalf("takeaways: %v", got)
	}
	if got := o.GenerateArticleTimeline(ctx, testArticle, speed()); got != nil {
		t.Fatalf("timeline: %v", got)
	}
	if got := o.ExtractKeyConcepts(ctx, testArticle, speed()); got != nil {
		t.Fatalf("concepts: %v", got)
	}
}

func TestStructuredResultsAreCleaned(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(&fakeGenerator{text: `{"tags":["Transit"," transit ","","Budget","Night","City","Council","Extra"]}`}, nil)
	if got := o.GenerateTags(ctx, testArticle, speed()); len(got) != 5 || got[0] != "Transit" || got[1] != "Budget" {
		t.Fatalf("tags: %v", got)
	}

	o = newTestOrchestrator(&fakeGenerator{text: `{"takeaways":["a","b","c","d","e"]}`}, nil)
	if got := o.GenerateKeyTakeaways(ctx, testArticle, speed()); len(got) != 4 {
		t.Fatalf("takeaways: %v", got)
	}

	o = newTestOrchestrator(&fakeGenerator{text: `{"concepts":[{"term":"Council","type":"Organization","description":"d"},{"term":"Vibes","type":"Feeling","description":"d"}]}`}, nil)
	if got := o.ExtractKeyConcepts(ctx, testArticle, speed()); len(got) != 1 || got[0].Type != news.ConceptOrganization {
		t.Fatalf("concepts: %+v", got)
	}

	o = newTestOrchestrator(&fakeGenerator{text: `{"events":[{"year":"1998","description":"First routes"},{"year":"","description":"x"}]}`}, nil)
	if got := o.GenerateArticleTimeline(ctx, testArticle, speed()); len(got) != 1 || got[0].Year != "1998" {
		t.Fatalf("timeline: %+v", got)
	}
}

func TestAskAboutArticleConstrainsToArticle(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"That information is not available in the article."}}
	o := newTestOrchestrator(gen, nil)
	history := []news.ChatMessage{
		{Role: news.ChatUser, Content: "Who voted?"},
		{Role: news.ChatModel, Content: "The council."},
	}
	text, err := stream.Collect(o.AskAboutArticle(context.Background(), testArticle, "What is the mayor's favourite colour?", history, speed()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "not available") {
		t.Fatalf("unexpected answer: %q", text)
	}
	req := gen.last()
	if !strings.Contains(req.System, "information is not available in the article") || !strings.Contains(req.System, "outside knowledge") {
		t.Fatalf("system instruction must constrain answers: %q", req.System)
	}
	if len(req.History) != 2 || req.History[1].Content != "The council." {
		t.Fatalf("history not forwarded: %+v", req.History)
	}
}

func TestExpertAnalysisRejectsUnknownPersona(t *testing.T) {
	gen := &fakeGenerator{}
	o := newTestOrchestrator(gen, nil)
	_, err := stream.Collect(o.GenerateExpertAnalysis(context.Background(), testArticle, "Astrologer", speed()))
	if !errors.Is(err, news.ErrUnknownPersona) || gen.calls() != 0 {
		t.Fatalf("expected persona rejection without a request, got %v (%d calls)", err, gen.calls())
	}

	_, _ = stream.Collect(o.GenerateExpertAnalysis(context.Background(), testArticle, "historian", speed()))
	req := gen.last()
	if !strings.Contains(req.System, "Historian") || !strings.Contains(req.Prompt, "Historian") {
		t.Fatalf("persona must appear in system and prompt")
	}
}

func TestApplyReadingLensNoneIsPassThrough(t *testing.T) {
	gen := &fakeGenerator{text: "rewritten"}
	o := newTestOrchestrator(gen, nil)
	got, err := o.ApplyReadingLens(context.Background(), "original", news.LensNone, speed())
	if err != nil || got != "original" || gen.calls() != 0 {
		t.Fatalf("None lens must not call the model: %q %v %d", got, err, gen.calls())
	}
	got, err = o.ApplyReadingLens(context.Background(), "original", news.LensDefineTerms, speed())
	if err != nil || got != "rewritten" {
		t.Fatalf("lens: %q %v", got, err)
	}
}

func TestHardFailuresCarryUserMessage(t *testing.T) {
	o := newTestOrchestrator(&fakeGenerator{err: errors.New("down")}, nil)
	ctx := context.Background()
	if _, err := o.TranslateArticle(ctx, "hola", "English", speed()); err == nil || err.Error() != userMessages[opTranslate] {
		t.Fatalf("translate: %v", err)
	}
	if _, err := o.GenerateNewsBriefing(ctx, []news.Article{testArticle}, speed()); err == nil || err.Error() != userMessages[opBriefing] {
		t.Fatalf("briefing: %v", err)
	}
	if _, err := o.GenerateNewsBriefing(ctx, nil, speed()); err == nil {
		t.Fatalf("briefing without articles must fail")
	}
}

func TestNewsBriefingFraming(t *testing.T) {
	gen := &fakeGenerator{text: "  Welcome to your news briefing. ... That's all for now. Thanks for listening.  "}
	o := newTestOrchestrator(gen, nil)
	script, err := o.GenerateNewsBriefing(context.Background(), []news.Article{testArticle}, speed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(script, briefingWelcome) {
		t.Fatalf("script not trimmed: %q", script)
	}
	prompt := gen.last().Prompt
	if !strings.Contains(prompt, briefingWelcome) || !strings.Contains(prompt, briefingSignOff) || !strings.Contains(prompt, testArticle.Title) {
		t.Fatalf("briefing prompt missing framing or stories: %q", prompt)
	}
}

func TestBlankOutputIsHardFailure(t *testing.T) {
	o := newTestOrchestrator(&fakeGenerator{text: "   "}, nil)
	ctx := context.Background()
	if out, err := o.TranslateArticle(ctx, "hola", "English", speed()); err == nil || err.Error() != userMessages[opTranslate] {
		t.Fatalf("translate: %q %v", out, err)
	}
	if out, err := o.ApplyReadingLens(ctx, "text", news.LensSimplify, speed()); err == nil || err.Error() != userMessages[opLens] {
		t.Fatalf("lens: %q %v", out, err)
	}

	for name, chunks := range map[string][]string{"none": nil, "blank": {" ", "\n"}} {
		o := newTestOrchestrator(&fakeGenerator{chunks: chunks}, nil)
		text, err := stream.Collect(o.Summarize(ctx, testArticle, speed()))
		var ue *UserError
		if !errors.As(err, &ue) || ue.Op != opSummarize {
			t.Fatalf("%s chunks: expected summarize failure, got %q %v", name, text, err)
		}
	}
}

func TestReadingPromptContent(t *testing.T) {
	cases := []struct {
		name string
		run  func(o *Orchestrator) stream.Text
		want []string
	}{
		{
			name: "explain",
			run: func(o *Orchestrator) stream.Text {
				return o.ExplainSimply(context.Background(), testArticle, speed())
			},
			want: []string{"10-year-old", testArticle.Title},
		},
		{
			name: "counterpoint",
			run: func(o *Orchestrator) stream.Text {
				return o.GenerateCounterpoint(context.Background(), testArticle, speed())
			},
			want: []string{"objective alternative viewpoint", testArticle.Title},
		},
		{
			name: "behind the news",
			run: func(o *Orchestrator) stream.Text {
				return o.GenerateBehindTheNews(context.Background(), testArticle, speed())
			},
			want: []string{"## Historical Context", "## Key Players", "## Broader Implications"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{chunks: []string{"ok"}}
			if _, err := stream.Collect(tc.run(newTestOrchestrator(gen, nil))); err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			prompt := gen.last().Prompt
			for _, w := range tc.want {
				if !strings.Contains(prompt, w) {
					t.Fatalf("prompt missing %q: %q", w, prompt)
				}
			}
		})
	}
}

func TestAuthorResponseRolePlaysByline(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"I wrote it because..."}}
	o := newTestOrchestrator(gen, nil)
	if _, err := stream.Collect(o.GenerateAuthorResponse(context.Background(), testArticle, "Why night buses?", speed())); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	req := gen.last()
	if !strings.Contains(req.System, "You are Maya Okafor") || !strings.Contains(req.System, testArticle.Title) {
		t.Fatalf("author system prompt: %q", req.System)
	}
	if req.Prompt != "Why night buses?" {
		t.Fatalf("question must be the prompt, got %q", req.Prompt)
	}

	anon := testArticle
	anon.Author = ""
	_, _ = stream.Collect(o.GenerateAuthorResponse(context.Background(), anon, "Why?", speed()))
	if !strings.Contains(gen.last().System, "You are the author") {
		t.Fatalf("missing author should fall back to a generic byline: %q", gen.last().System)
	}
}
