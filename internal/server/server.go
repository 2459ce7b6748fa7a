// Package server exposes the orchestrator, sessions and library over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"newsreader/internal/catalog"
	"newsreader/internal/library"
	"newsreader/internal/news"
	"newsreader/internal/orchestrator"
	"newsreader/internal/session"
)

const requestIDHeader = "X-Request-ID"

// Deps are the components the API serves.
type Deps struct {
	Catalog  *catalog.Catalog
	AI       *orchestrator.Orchestrator
	Sessions *session.Manager
	Library  *library.Library
	// Defaults are the reader settings used when a request carries none.
	Defaults news.Settings
	Logger   *slog.Logger
}

type Server struct {
	catalog  *catalog.Catalog
	ai       *orchestrator.Orchestrator
	sessions *session.Manager
	library  *library.Library
	defaults news.Settings
	log      *slog.Logger
	engine   *gin.Engine
}

func New(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		catalog:  d.Catalog,
		ai:       d.AI,
		sessions: d.Sessions,
		library:  d.Library,
		defaults: d.Defaults.Normalize(),
		log:      log.With("component", "server"),
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.routes(r)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := r.Group("/v1")
	{
		v1.GET("/articles", s.listArticles)
		v1.GET("/articles/:id", s.getArticle)

		v1.POST("/articles/:id/summary", s.articleStream(s.summary))
		v1.POST("/articles/:id/explain", s.articleStream(s.explain))
		v1.POST("/articles/:id/counterpoint", s.articleStream(s.counterpoint))
		v1.POST("/articles/:id/behind-the-news", s.articleStream(s.behindTheNews))
		v1.POST("/articles/:id/expert", s.articleStream(s.expert))
		v1.POST("/articles/:id/author", s.articleStream(s.author))
		v1.POST("/articles/:id/ask", s.articleStream(s.ask))

		v1.POST("/articles/:id/tags", s.tags)
		v1.POST("/articles/:id/fact-check", s.factCheck)
		v1.POST("/articles/:id/quiz", s.quiz)
		v1.POST("/articles/:id/related", s.related)
		v1.POST("/articles/:id/takeaways", s.takeaways)
		v1.POST("/articles/:id/timeline", s.timeline)
		v1.POST("/articles/:id/concepts", s.concepts)

		v1.POST("/translate", s.translate)
		v1.POST("/lens", s.lens)
		v1.POST("/speech", s.speech)
		v1.POST("/briefing", s.briefing)
		v1.POST("/feed", s.feed)

		v1.POST("/sessions", s.createSession)
		v1.GET("/sessions/:id", s.getSession)
		v1.PUT("/sessions/:id/article", s.openSessionArticle)
		v1.POST("/sessions/:id/ask", s.askSession)
		v1.DELETE("/sessions/:id", s.deleteSession)

		v1.GET("/bookmarks", s.listBookmarks)
		v1.PUT("/bookmarks/:id", s.addBookmark)
		v1.DELETE("/bookmarks/:id", s.removeBookmark)

		v1.GET("/offline/:id", s.getOffline)
		v1.PUT("/offline/:id", s.saveOffline)
		v1.DELETE("/offline/:id", s.removeOffline)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		start := time.Now()
		c.Next()
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		s.log.Log(c.Request.Context(), level, "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).String(),
		)
	}
}

// requestBody is the union of fields accepted by the POST endpoints.
type requestBody struct {
	Settings   *settingsOverride  `json:"settings"`
	Question   string             `json:"question"`
	History    []news.ChatMessage `json:"history"`
	Persona    string             `json:"persona"`
	Text       string             `json:"text"`
	Language   string             `json:"language"`
	Lens       string             `json:"lens"`
	Voice      string             `json:"voice"`
	ArticleID  int                `json:"articleId"`
	ArticleIDs []int              `json:"articleIds"`
	Bookmarks  []int              `json:"bookmarks"`
}

// bind decodes an optional JSON body. It writes a 400 and returns false on malformed input.
func bind(c *gin.Context, body *requestBody) bool {
	if err := c.ShouldBindJSON(body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid json: "+err.Error())
		return false
	}
	return true
}

// settingsOverride is a partial news.Settings. Switches are pointers so a
// request can turn a default off as well as on.
type settingsOverride struct {
	news.Settings
	ReducedMotion      *bool `json:"reducedMotion"`
	BreakingNewsAlerts *bool `json:"breakingNewsAlerts"`
	DailyDigest        *bool `json:"dailyDigest"`
}

// settings layers the request's non-empty settings over the server defaults.
func (s *Server) settings(override *settingsOverride) news.Settings {
	out := s.defaults
	if override == nil {
		return out
	}
	o := *override
	if o.Theme != "" {
		out.Theme = o.Theme
	}
	if o.FontSize != "" {
		out.FontSize = o.FontSize
	}
	if o.SummaryLength != "" {
		out.SummaryLength = o.SummaryLength
	}
	if o.TTSVoice != "" {
		out.TTSVoice = o.TTSVoice
	}
	if o.AIModelPreference != "" {
		out.AIModelPreference = o.AIModelPreference
	}
	if o.PreferredCategories != nil {
		out.PreferredCategories = o.PreferredCategories
	}
	if o.HiddenCategories != nil {
		out.HiddenCategories = o.HiddenCategories
	}
	if o.ReducedMotion != nil {
		out.ReducedMotion = *o.ReducedMotion
	}
	if o.BreakingNewsAlerts != nil {
		out.BreakingNewsAlerts = *o.BreakingNewsAlerts
	}
	if o.DailyDigest != nil {
		out.DailyDigest = *o.DailyDigest
	}
	return out.Normalize()
}

// article resolves the :id path parameter, writing 400 or 404 on failure.
func (s *Server) article(c *gin.Context) (news.Article, bool) {
	id, ok := pathID(c)
	if !ok {
		return news.Article{}, false
	}
	a, err := s.catalog.Get(id)
	if err != nil {
		writeError(c, err)
		return news.Article{}, false
	}
	return a, true
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "invalid article id")
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var ue *orchestrator.UserError
	switch {
	case errors.Is(err, news.ErrUnknownPersona), errors.Is(err, news.ErrUnknownLens):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, session.ErrNotFound), errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoArticle):
		return http.StatusConflict
	case errors.As(err, &ue):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the text shown to readers; internal causes are never exposed.
func publicMessage(err error) string {
	var ue *orchestrator.UserError
	switch {
	case errors.As(err, &ue):
		return ue.Message
	case statusFor(err) == http.StatusInternalServerError:
		return "internal error"
	default:
		return err.Error()
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": publicMessage(err)})
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
