package orchestrator

import (
	"fmt"
	"strings"

	"newsreader/internal/news"
)

const (
	opSummarize     = "summarize"
	opExplain       = "explain_simply"
	opSpeech        = "text_to_speech"
	opTags          = "generate_tags"
	opFactCheck     = "fact_check"
	opTranslate     = "translate"
	opQuiz          = "generate_quiz"
	opRelated       = "find_related"
	opCounterpoint  = "counterpoint"
	opTakeaways     = "key_takeaways"
	opTimeline      = "timeline"
	opBehindTheNews = "behind_the_news"
	opExpert        = "expert_analysis"
	opFeed          = "personalized_feed"
	opAsk           = "ask_about_article"
	opConcepts      = "key_concepts"
	opLens          = "reading_lens"
	opAuthor        = "author_response"
	opBriefing      = "news_briefing"
)

// maxContentChars caps the article body interpolated into a prompt.
const maxContentChars = 12000

const newsroomSystem = "You are a careful news assistant. Be accurate, neutral and concise. " +
	"Never invent facts that are not supported by the article."

var summaryTemplates = map[news.SummaryLength]string{
	news.SummaryShort: "Summarize the following news article in a single sentence. " +
		"Reply with that one sentence only.",
	news.SummaryMedium: "Summarize the following news article as 3 to 5 bullet points. " +
		"Start every bullet on its own line with \"- \" and keep each bullet to one sentence. " +
		"Reply with the bullet list only.",
	news.SummaryDetailed: "Write a detailed summary of the following news article in 3 to 4 paragraphs. " +
		"Cover the main events, the people involved, and why it matters. Separate paragraphs with a blank line.",
}

// summaryInstruction picks the template for the reader's summary length.
func summaryInstruction(length news.SummaryLength) string {
	return summaryTemplates[news.ParseSummaryLength(string(length))]
}

// articleBlock renders an article for interpolation into a prompt.
func articleBlock(a news.Article) string {
	body, _ := news.Clip(news.PlainText(a.Content), maxContentChars)
	if body == "" {
		body = news.PlainText(a.Excerpt)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", strings.TrimSpace(a.Title))
	if a.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", a.Author)
	}
	if a.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", a.Date)
	}
	if a.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", a.Category)
	}
	if a.Region != "" {
		fmt.Fprintf(&b, "Region: %s\n", a.Region)
	}
	b.WriteString("\n")
	b.WriteString(body)
	return b.String()
}

func withArticle(instruction string, a news.Article) string {
	return instruction + "\n\nArticle:\n" + articleBlock(a)
}

func explainPrompt(a news.Article) string {
	return withArticle("Explain this news article as if you were talking to a 10-year-old. "+
		"Use short sentences, everyday words and one simple comparison. Keep it under 150 words.", a)
}

func counterpointPrompt(a news.Article) string {
	return withArticle("Present an objective alternative viewpoint to the main argument or framing of this article. "+
		"Describe the strongest reasonable counter-arguments that informed critics would raise, "+
		"without taking sides or attacking the author. Keep it to 2 short paragraphs.", a)
}

func behindTheNewsPrompt(a news.Article) string {
	return withArticle("Write a background briefing for this story in Markdown with exactly these three sections:\n"+
		"## Historical Context\n## Key Players\n## Broader Implications\n"+
		"Use 2 to 4 sentences or bullets per section.", a)
}

func expertSystem(p news.Persona) string {
	return fmt.Sprintf("You are a renowned %s. Analyse news strictly from the perspective and expertise of a %s, "+
		"citing the concepts your field would use. Be insightful but measured.", p, p)
}

func expertPrompt(a news.Article, p news.Persona) string {
	return withArticle(fmt.Sprintf("As a %s, give your expert analysis of this article in Markdown. "+
		"Explain what a %s would notice that a general reader might miss, and what to watch for next.", p, p), a)
}

func askSystem(a news.Article) string {
	return "You answer reader questions about one news article. Use only the article below. " +
		"If the article does not contain the information needed, say that the information is not available in the article. " +
		"Do not use outside knowledge and do not speculate.\n\nArticle:\n" + articleBlock(a)
}

func authorSystem(a news.Article) string {
	return fmt.Sprintf("You are %s, the journalist who wrote the article %q. "+
		"Answer the reader in the first person, in the same tone and style as the article. "+
		"Stay consistent with what the article reports; if asked about something it does not cover, say so in character.\n\nArticle:\n%s",
		a.Byline(), a.Title, articleBlock(a))
}

func translatePrompt(text, language string) string {
	return fmt.Sprintf("Translate the following text into %s. Preserve paragraph breaks and names. "+
		"Reply with the translation only.\n\nText:\n%s", language, text)
}

var lensInstructions = map[news.Lens]string{
	news.LensSimplify: "Rewrite the following text in plain, simple language for a general reader. " +
		"Keep every fact, shorten long sentences and replace jargon. Reply with the rewritten text only.",
	news.LensDefineTerms: "Return the following text unchanged, except that after each technical term, acronym or " +
		"specialist phrase you add a short definition in parentheses. Reply with the annotated text only.",
}

func lensPrompt(text string, lens news.Lens) string {
	return lensInstructions[lens] + "\n\nText:\n" + text
}

const (
	briefingWelcome = "Welcome to your news briefing."
	briefingSignOff = "That's all for now. Thanks for listening."
)

func briefingPrompt(articles []news.Article) string {
	var b strings.Builder
	b.WriteString("You are a news anchor writing a script to be read aloud. ")
	fmt.Fprintf(&b, "Begin with exactly: %q ", briefingWelcome)
	b.WriteString("Then cover each story below in 2 or 3 conversational sentences, with a short spoken transition between stories. ")
	fmt.Fprintf(&b, "End with exactly: %q ", briefingSignOff)
	b.WriteString("Do not use headings, bullet points, stage directions or Markdown.\n\nStories:\n")
	for i, a := range articles {
		excerpt := a.Excerpt
		if excerpt == "" {
			excerpt, _ = news.Clip(news.PlainText(a.Content), 600)
		}
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, a.Title, a.Category, excerpt)
	}
	return strings.TrimSpace(b.String())
}

func tagsPrompt(a news.Article) string {
	return withArticle("List up to 5 short topical tags (one to three words each) for this article.", a)
}

func takeawaysPrompt(a news.Article) string {
	return withArticle("List the 3 or 4 most important takeaways from this article, one sentence each.", a)
}

func timelinePrompt(a news.Article) string {
	return withArticle("Build a chronological timeline of the key past events that lead up to this story. "+
		"Use 3 to 6 events, each with the year (or date) and a one-sentence description. "+
		"Return an empty list if the story has no meaningful history.", a)
}

func quizPrompt(a news.Article) string {
	return withArticle("Write a 3-question multiple-choice quiz that checks understanding of this article. "+
		"Each question has exactly 4 options and correctAnswer must equal one of the options word for word.", a)
}

func conceptsPrompt(a news.Article) string {
	return withArticle("Extract up to 6 key concepts a reader should understand in this article: the main people, "+
		"organizations, locations and ideas. Give each a type (Person, Organization, Location or Concept) "+
		"and a one-sentence description.", a)
}

func factCheckPrompt(a news.Article) string {
	return withArticle("Fact-check the main claims of this article using web search. "+
		"Respond in exactly two lines and nothing else:\n"+
		"STATUS: Verified, Mixed or Unverified\n"+
		"SUMMARY: one or two sentences explaining the verdict", a)
}

func relatedPrompt(a news.Article, candidates []news.Article) string {
	var b strings.Builder
	b.WriteString("Pick up to 3 articles from the candidate list that are most topically related to the current article. ")
	b.WriteString("Return their numeric IDs, most related first. Return an empty list if none are related.\n\n")
	fmt.Fprintf(&b, "Current article: %s (%s)\n%s\n\nCandidates:\n", a.Title, a.Category, a.Excerpt)
	writeCandidates(&b, candidates)
	return b.String()
}

func feedPrompt(interests string, candidates []news.Article) string {
	var b strings.Builder
	b.WriteString("Rank the candidate articles for a reader with the interests below. ")
	b.WriteString("Return the numeric IDs of up to 5 articles they are most likely to want to read, best first.\n\n")
	b.WriteString("Reader interests:\n")
	b.WriteString(interests)
	b.WriteString("\n\nCandidates:\n")
	writeCandidates(&b, candidates)
	return b.String()
}

func writeCandidates(b *strings.Builder, candidates []news.Article) {
	for _, c := range candidates {
		fmt.Fprintf(b, "- ID %d: %s [%s]\n", c.ID, c.Title, c.Category)
	}
}

// interestSummary describes a reader from their bookmarks and preferred categories.
func interestSummary(bookmarked []news.Article, s news.Settings) string {
	var b strings.Builder
	if len(bookmarked) > 0 {
		b.WriteString("Bookmarked articles:\n")
		for _, a := range bookmarked {
			fmt.Fprintf(&b, "- %s [%s]\n", a.Title, a.Category)
		}
	}
	if len(s.PreferredCategories) > 0 {
		fmt.Fprintf(&b, "Preferred categories: %s\n", strings.Join(s.PreferredCategories, ", "))
	}
	return strings.TrimSpace(b.String())
}
