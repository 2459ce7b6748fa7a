// Package session keeps the per-reader state for the article being read: the
// question-and-answer conversation and the insights fetched when it opens.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"newsreader/internal/lifecycle"
	"newsreader/internal/news"
	"newsreader/internal/stream"
)

var (
	ErrNoArticle            = errors.New("no article is open in this session")
	ErrFactCheckUnavailable = errors.New("fact-check unavailable")
)

// Assistant is the subset of the orchestrator a session drives.
type Assistant interface {
	FactCheckArticle(ctx context.Context, a news.Article, s news.Settings) *news.FactCheck
	GenerateTags(ctx context.Context, a news.Article, s news.Settings) []string
	AskAboutArticle(ctx context.Context, a news.Article, question string, history []news.ChatMessage, s news.Settings) stream.Text
}

type Session struct {
	id      string
	created time.Time
	ai      Assistant
	log     *slog.Logger
	// used is the unix nano time of the last lookup through the Manager.
	used atomic.Int64

	mu      sync.Mutex
	article *news.Article
	conv    news.Conversation
	// epoch changes whenever the subject article changes.
	epoch uint64

	factCheck lifecycle.Tracker[*news.FactCheck]
	tags      lifecycle.Tracker[[]string]
}

func newSession(id string, ai Assistant, log *slog.Logger) *Session {
	return &Session{id: id, created: time.Now().UTC(), ai: ai, log: log.With("session", id)}
}

func (s *Session) ID() string { return s.id }

func (s *Session) touch(t time.Time) { s.used.Store(t.UnixNano()) }

func (s *Session) lastUsed() time.Time { return time.Unix(0, s.used.Load()) }

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID        string                           `json:"id"`
	CreatedAt time.Time                        `json:"createdAt"`
	ArticleID int                              `json:"articleId,omitempty"`
	Messages  []news.ChatMessage               `json:"messages"`
	FactCheck lifecycle.State[*news.FactCheck] `json:"factCheck"`
	Tags      lifecycle.State[[]string]        `json:"tags"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{ID: s.id, CreatedAt: s.created, Messages: s.conv.Messages()}
	if s.article != nil {
		snap.ArticleID = s.article.ID
	}
	s.mu.Unlock()
	snap.FactCheck = s.factCheck.State()
	snap.Tags = s.tags.State()
	return snap
}

// Open makes article a the subject of the session. Opening a different article clears
// the conversation. Fact-check and tags run concurrently and Open returns once
// both have settled; results of an earlier Open still in flight are discarded.
func (s *Session) Open(ctx context.Context, a news.Article, settings news.Settings) error {
	s.mu.Lock()
	if s.conv.Bind(a.ID) {
		s.epoch++
		s.log.Debug("subject changed, conversation cleared", "article", a.ID)
	}
	s.article = &a
	s.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		s.factCheck.Run(ctx, func(ctx context.Context) (*news.FactCheck, error) {
			fc := s.ai.FactCheckArticle(ctx, a, settings)
			if fc == nil {
				return nil, ErrFactCheckUnavailable
			}
			return fc, nil
		})
		return nil
	})
	g.Go(func() error {
		s.tags.Run(ctx, func(ctx context.Context) ([]string, error) {
			return s.ai.GenerateTags(ctx, a, settings), nil
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Ask streams an answer about the open article. When the answer completes
// without error, the question and answer are appended to the conversation,
// unless the subject changed in the meantime.
func (s *Session) Ask(ctx context.Context, question string, settings news.Settings) stream.Text {
	s.mu.Lock()
	if s.article == nil {
		s.mu.Unlock()
		return stream.Fail(ErrNoArticle)
	}
	a := *s.article
	epoch := s.epoch
	history := s.conv.Messages()
	s.mu.Unlock()

	answer := s.ai.AskAboutArticle(ctx, a, question, history, settings)
	return stream.Tee(answer, func(text string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			s.log.Debug("dropping answer for previous article", "article", a.ID)
			return
		}
		s.conv.Append(news.ChatMessage{Role: news.ChatUser, Content: strings.TrimSpace(question)})
		s.conv.Append(news.ChatMessage{Role: news.ChatModel, Content: text})
	})
}
