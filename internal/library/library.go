package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"newsreader/internal/news"
)

const bookmarksKey = "bookmarks.json"

func offlineKey(id int) string { return "offline/" + strconv.Itoa(id) + ".json" }

// Library holds the reader's bookmarks and offline article copies.
type Library struct {
	store Store
	log   *slog.Logger
	// mu serializes read-modify-write of the bookmark list.
	mu sync.Mutex
}

func New(store Store, log *slog.Logger) *Library {
	if log == nil {
		log = slog.Default()
	}
	return &Library{store: store, log: log.With("component", "library")}
}

// Bookmarks returns bookmarked article IDs in the order they were added.
func (l *Library) Bookmarks(ctx context.Context) ([]int, error) {
	b, err := l.store.Get(ctx, bookmarksKey)
	if errors.Is(err, ErrNotFound) {
		return []int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	var ids []int
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("decode bookmarks: %w", err)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// AddBookmark adds id if absent and returns the updated list.
func (l *Library) AddBookmark(ctx context.Context, id int) ([]int, error) {
	return l.updateBookmarks(ctx, func(ids []int) []int {
		if slices.Contains(ids, id) {
			return ids
		}
		return append(ids, id)
	})
}

// RemoveBookmark removes id if present and returns the updated list.
func (l *Library) RemoveBookmark(ctx context.Context, id int) ([]int, error) {
	return l.updateBookmarks(ctx, func(ids []int) []int {
		return slices.DeleteFunc(ids, func(v int) bool { return v == id })
	})
}

func (l *Library) updateBookmarks(ctx context.Context, fn func([]int) []int) ([]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids, err := l.Bookmarks(ctx)
	if err != nil {
		return nil, err
	}
	ids = fn(ids)
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	if err := l.store.Put(ctx, bookmarksKey, b); err != nil {
		return nil, fmt.Errorf("write bookmarks: %w", err)
	}
	l.log.Debug("bookmarks updated", "count", len(ids))
	return ids, nil
}

// SaveOffline stores a copy of a for offline reading, replacing any earlier copy.
func (l *Library) SaveOffline(ctx context.Context, a news.Article) error {
	if a.ID <= 0 {
		return fmt.Errorf("article id must be positive, got %d", a.ID)
	}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if err := l.store.Put(ctx, offlineKey(a.ID), b); err != nil {
		return fmt.Errorf("save offline article %d: %w", a.ID, err)
	}
	return nil
}

// Offline returns the stored copy of article id, or ErrNotFound.
func (l *Library) Offline(ctx context.Context, id int) (news.Article, error) {
	b, err := l.store.Get(ctx, offlineKey(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return news.Article{}, ErrNotFound
		}
		return news.Article{}, fmt.Errorf("read offline article %d: %w", id, err)
	}
	var a news.Article
	if err := json.Unmarshal(b, &a); err != nil {
		return news.Article{}, fmt.Errorf("decode offline article %d: %w", id, err)
	}
	return a, nil
}

// RemoveOffline deletes the stored copy of article id. Missing copies are not an error.
func (l *Library) RemoveOffline(ctx context.Context, id int) error {
	if err := l.store.Delete(ctx, offlineKey(id)); err != nil {
		return fmt.Errorf("remove offline article %d: %w", id, err)
	}
	return nil
}
