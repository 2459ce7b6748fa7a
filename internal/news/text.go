package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockElements = "p, div, li, blockquote, h1, h2, h3, h4, h5, h6, tr, section, article"

// PlainText converts article markup to readable plain text, one block per line.
// Input without markup is returned with whitespace normalised.
func PlainText(content string) string {
	if !strings.ContainsAny(content, "<>") {
		return normalizeLines(content)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return normalizeLines(content)
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return normalizeLines(doc.Text())
}

func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Clip returns at most n runes of s and whether anything was cut.
func Clip(s string, n int) (string, bool) {
	if n <= 0 || len(s) <= n {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s, false
	}
	return string(runes[:n]), true
}
