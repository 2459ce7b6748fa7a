package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"newsreader/internal/briefing"
	"newsreader/internal/news"
	"newsreader/internal/orchestrator"
)

// BriefingSize is the number of stories in a default briefing.
const BriefingSize = 5

// bodyText returns body.Text, or the plain text of body.ArticleID when no text is given.
func (s *Server) bodyText(c *gin.Context, body requestBody) (string, bool) {
	if text := strings.TrimSpace(body.Text); text != "" {
		return text, true
	}
	if body.ArticleID > 0 {
		a, err := s.catalog.Get(body.ArticleID)
		if err != nil {
			writeError(c, err)
			return "", false
		}
		return news.PlainText(a.Content), true
	}
	badRequest(c, "missing text or articleId")
	return "", false
}

// translate: POST /v1/translate {"text"|"articleId", "language"}
func (s *Server) translate(c *gin.Context) {
	var body requestBody
	if !bind(c, &body) {
		return
	}
	if strings.TrimSpace(body.Language) == "" {
		badRequest(c, "missing language")
		return
	}
	text, found := s.bodyText(c, body)
	if !found {
		return
	}
	out, err := s.ai.TranslateArticle(c.Request.Context(), text, body.Language, s.settings(body.Settings))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, gin.H{"text": out, "language": body.Language})
}

// lens: POST /v1/lens {"text"|"articleId", "lens": "None|Simplify|DefineTerms"}
func (s *Server) lens(c *gin.Context) {
	var body requestBody
	if !bind(c, &body) {
		return
	}
	lens, err := news.ParseLens(body.Lens)
	if err != nil {
		writeError(c, err)
		return
	}
	text, found := s.bodyText(c, body)
	if !found {
		return
	}
	out, err := s.ai.ApplyReadingLens(c.Request.Context(), text, lens, s.settings(body.Settings))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, gin.H{"text": out, "lens": lens})
}

// speech: POST /v1/speech {"text"|"articleId", "voice"}
func (s *Server) speech(c *gin.Context) {
	var body requestBody
	if !bind(c, &body) {
		return
	}
	text, found := s.bodyText(c, body)
	if !found {
		return
	}
	sp, err := s.ai.TextToSpeech(c.Request.Context(), text, body.Voice, s.settings(body.Settings))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, sp)
}

// briefing: POST /v1/briefing {"articleIds"?}. Without IDs the top visible stories are used.
func (s *Server) briefing(c *gin.Context) {
	var body requestBody
	if !bind(c, &body) {
		return
	}
	st := s.settings(body.Settings)
	articles := s.catalog.Top(BriefingSize, st)
	if len(body.ArticleIDs) > 0 {
		articles = s.catalog.Lookup(body.ArticleIDs)
		if len(articles) == 0 {
			badRequest(c, "none of the requested articles exist")
			return
		}
	}
	script, err := s.ai.GenerateNewsBriefing(c.Request.Context(), articles, st)
	if err != nil {
		writeError(c, err)
		return
	}
	b := briefing.Briefing{Date: time.Now(), Script: script, Stories: articles}
	meta := b.Meta(string(orchestrator.SelectTier(st)))
	respond(c, gin.H{
		"script":     script,
		"markdown":   b.RenderMarkdown(),
		"articleIds": meta.ArticleIDs,
		"wordCount":  meta.WordCount,
	})
}

// feed: POST /v1/feed {"bookmarks"?}. Without bookmarks the stored library is used.
func (s *Server) feed(c *gin.Context) {
	var body requestBody
	if !bind(c, &body) {
		return
	}
	st := s.settings(body.Settings)
	bookmarks := body.Bookmarks
	if bookmarks == nil && s.library != nil {
		var err error
		if bookmarks, err = s.library.Bookmarks(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
	}
	ids := nonNil(s.ai.GeneratePersonalizedFeed(c.Request.Context(), s.catalog.Lookup(bookmarks), s.catalog.Visible("", st), st))
	c.JSON(http.StatusOK, gin.H{"data": ids, "articles": s.catalog.Lookup(ids)})
}
