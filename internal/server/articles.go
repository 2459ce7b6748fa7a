package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"newsreader/internal/news"
	"newsreader/internal/stream"
)

// listArticles: GET /v1/articles?category=Local
func (s *Server) listArticles(c *gin.Context) {
	category := c.Query("category")
	res := s.catalog.Visible(category, s.defaults)
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"category": category, "count": len(res)},
		"data": res,
	})
}

// getArticle: GET /v1/articles/:id
func (s *Server) getArticle(c *gin.Context) {
	a, found := s.article(c)
	if !found {
		return
	}
	respond(c, a)
}

// streamOp starts a streamed operation, or writes an error response and
// returns false when the request is invalid.
type streamOp func(c *gin.Context, a news.Article, body requestBody, st news.Settings) (stream.Text, bool)

// articleStream adapts a streamed orchestrator operation into an SSE handler.
func (s *Server) articleStream(op streamOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, found := s.article(c)
		if !found {
			return
		}
		var body requestBody
		if !bind(c, &body) {
			return
		}
		seq, valid := op(c, a, body, s.settings(body.Settings))
		if !valid {
			return
		}
		s.streamSSE(c, seq)
	}
}

func (s *Server) summary(c *gin.Context, a news.Article, _ requestBody, st news.Settings) (stream.Text, bool) {
	return s.ai.Summarize(c.Request.Context(), a, st), true
}

func (s *Server) explain(c *gin.Context, a news.Article, _ requestBody, st news.Settings) (stream.Text, bool) {
	return s.ai.ExplainSimply(c.Request.Context(), a, st), true
}

func (s *Server) counterpoint(c *gin.Context, a news.Article, _ requestBody, st news.Settings) (stream.Text, bool) {
	return s.ai.GenerateCounterpoint(c.Request.Context(), a, st), true
}

func (s *Server) behindTheNews(c *gin.Context, a news.Article, _ requestBody, st news.Settings) (stream.Text, bool) {
	return s.ai.GenerateBehindTheNews(c.Request.Context(), a, st), true
}

// expert: body {"persona": "Economist"}
func (s *Server) expert(c *gin.Context, a news.Article, body requestBody, st news.Settings) (stream.Text, bool) {
	if _, err := news.ParsePersona(body.Persona); err != nil {
		writeError(c, err)
		return nil, false
	}
	return s.ai.GenerateExpertAnalysis(c.Request.Context(), a, body.Persona, st), true
}

// author: body {"question": "..."}
func (s *Server) author(c *gin.Context, a news.Article, body requestBody, st news.Settings) (stream.Text, bool) {
	if strings.TrimSpace(body.Question) == "" {
		badRequest(c, "missing question")
		return nil, false
	}
	return s.ai.GenerateAuthorResponse(c.Request.Context(), a, body.Question, st), true
}

// ask: body {"question": "...", "history": [{"role":"user","content":"..."}]}
func (s *Server) ask(c *gin.Context, a news.Article, body requestBody, st news.Settings) (stream.Text, bool) {
	if strings.TrimSpace(body.Question) == "" {
		badRequest(c, "missing question")
		return nil, false
	}
	return s.ai.AskAboutArticle(c.Request.Context(), a, body.Question, body.History, st), true
}

// articleJSON resolves the article and settings for a JSON insight endpoint.
func (s *Server) articleJSON(c *gin.Context) (news.Article, news.Settings, bool) {
	a, found := s.article(c)
	if !found {
		return news.Article{}, news.Settings{}, false
	}
	var body requestBody
	if !bind(c, &body) {
		return news.Article{}, news.Settings{}, false
	}
	return a, s.settings(body.Settings), true
}

func (s *Server) tags(c *gin.Context) {
	a, st, valid := s.articleJSON(c)
	if !valid {
		return
	}
	respond(c, nonNil(s.ai.GenerateTags(c.Request.Context(), a, st)))
}

// factCheck responds with data null when no verdict could be produced.
func (s *Server) factCheck(c *gin.Context) {
	a, st, valid := s.articleJSON(c)
	if !valid {
		return
	}
	respond(c, s.ai.FactCheckArticle(c.Request.Context(), a, st))
}

func (s *Server) quiz(c *gin.Context) {
	a, st, valid := s.articleJSON(c)
	if !valid {
		return
	}
	questions, err := s.ai.GenerateQuiz(c.Request.Context(), a, st)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, questions)
}

// related responds with the chosen IDs and the matching articles.
func (s *Server) related(c *gin.Context) {
	a, st, valid := s.articleJSON(c)
	if !valid {
		return
	}
	ids := nonNil(s.ai.FindRelatedArticles(c.Request.Context(), a, s.catalog.Except(a.ID), st))
	c.JSON(http.StatusOK, gin.H{"data": ids, "articles": s.catalog.Lookup(ids)})
}

func (s *Server) takeaways(c *gin.Context) {
	a, st, valid := s.articleJSON(c)
	if !valid {
		return
	}
	respond(c, nonNil(s.ai.GenerateKeyTakeaways(c.Request.Context(), a, st)))
}

func (s *Server) timeline(c *gin.Context) {
	a, st, valid := s.articleJSON(c)
	if !valid {
		return
	}
	respond(c, nonNil(s.ai.GenerateArticleTimeline(c.Request.Context(), a, st)))
}

func (s *Server) concepts(c *gin.Context) {
	a, st, valid := s.articleJSON(c)
	if !valid {
		return
	}
	respond(c, nonNil(s.ai.ExtractKeyConcepts(c.Request.Context(), a, st)))
}

// nonNil renders soft failures as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
