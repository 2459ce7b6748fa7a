// Package briefing lays out a generated news briefing for disk and upload.
package briefing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"newsreader/internal/news"
)

// Briefing is an anchor script together with the stories it covers.
type Briefing struct {
	Date    time.Time
	Script  string
	Stories []news.Article
}

func (b Briefing) Validate() error {
	if strings.TrimSpace(b.Script) == "" {
		return errors.New("script is required")
	}
	if len(b.Stories) == 0 {
		return errors.New("stories are required")
	}
	seen := make(map[int]bool, len(b.Stories))
	for _, a := range b.Stories {
		if strings.TrimSpace(a.Title) == "" {
			return fmt.Errorf("story %d has no title", a.ID)
		}
		if seen[a.ID] {
			return fmt.Errorf("story %d listed twice", a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

// RenderMarkdown returns the script followed by a list of the stories covered.
func (b Briefing) RenderMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# News briefing for ")
	sb.WriteString(b.Date.UTC().Format("Monday, January 2, 2006"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(b.Script))
	sb.WriteString("\n\n## Stories\n")
	for _, a := range b.Stories {
		fmt.Fprintf(&sb, "\n- %s (%s, %s)", strings.TrimSpace(a.Title), a.Category, a.Byline())
	}
	sb.WriteString("\n")
	return sb.String()
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Meta is written next to the script as meta.json.
type Meta struct {
	Date       string     `json:"date"`
	ArticleIDs []int      `json:"articleIds"`
	Titles     []string   `json:"titles"`
	WordCount  int        `json:"wordCount"`
	Tier       string     `json:"tier"`
	Audio      bool       `json:"audio"`
	Voice      news.Voice `json:"voice,omitempty"`
	Truncated  bool       `json:"truncated,omitempty"`
}

// Meta describes the briefing; audio fields are filled in by the caller.
func (b Briefing) Meta(tier string) Meta {
	m := Meta{
		Date:       b.Date.UTC().Format(time.DateOnly),
		ArticleIDs: make([]int, 0, len(b.Stories)),
		Titles:     make([]string, 0, len(b.Stories)),
		WordCount:  WordCount(b.Script),
		Tier:       tier,
	}
	for _, a := range b.Stories {
		m.ArticleIDs = append(m.ArticleIDs, a.ID)
		m.Titles = append(m.Titles, a.Title)
	}
	return m
}
