package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"newsreader/internal/session"
)

// createSession: POST /v1/sessions
func (s *Server) createSession(c *gin.Context) {
	sess := s.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"data": sess.Snapshot()})
}

func (s *Server) lookupSession(c *gin.Context) (*session.Session, bool) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return sess, true
}

// getSession: GET /v1/sessions/:id
func (s *Server) getSession(c *gin.Context) {
	sess, found := s.lookupSession(c)
	if !found {
		return
	}
	respond(c, sess.Snapshot())
}

// openSessionArticle: PUT /v1/sessions/:id/article {"articleId"}
// Responds once the on-open insights have settled.
func (s *Server) openSessionArticle(c *gin.Context) {
	sess, found := s.lookupSession(c)
	if !found {
		return
	}
	var body requestBody
	if !bind(c, &body) {
		return
	}
	if body.ArticleID <= 0 {
		badRequest(c, "missing articleId")
		return
	}
	a, err := s.catalog.Get(body.ArticleID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := sess.Open(c.Request.Context(), a, s.settings(body.Settings)); err != nil {
		writeError(c, err)
		return
	}
	respond(c, sess.Snapshot())
}

// askSession: POST /v1/sessions/:id/ask {"question"} streams the answer as SSE.
func (s *Server) askSession(c *gin.Context) {
	sess, found := s.lookupSession(c)
	if !found {
		return
	}
	var body requestBody
	if !bind(c, &body) {
		return
	}
	if strings.TrimSpace(body.Question) == "" {
		badRequest(c, "missing question")
		return
	}
	if sess.Snapshot().ArticleID == 0 {
		writeError(c, session.ErrNoArticle)
		return
	}
	s.streamSSE(c, sess.Ask(c.Request.Context(), body.Question, s.settings(body.Settings)))
}

// deleteSession: DELETE /v1/sessions/:id
func (s *Server) deleteSession(c *gin.Context) {
	if !s.sessions.Delete(c.Param("id")) {
		writeError(c, session.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
