// Package catalog serves the static article content the reader browses.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"newsreader/internal/news"
)

//go:embed articles.yaml
var sampleArticles []byte

var ErrNotFound = errors.New("article not found")

type document struct {
	Articles []news.Article `yaml:"articles"`
}

// Catalog is an immutable, ID-ordered article list.
type Catalog struct {
	articles []news.Article
	byID     map[int]int
}

// Load reads a YAML or JSON catalog file. An empty path loads the built-in sample.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(sampleArticles)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog bytes. JSON documents are accepted as YAML.
func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Articles)
}

// New builds a catalog, rejecting missing or duplicate IDs.
func New(articles []news.Article) (*Catalog, error) {
	sorted := make([]news.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[int]int, len(sorted))
	for i, a := range sorted {
		if a.ID <= 0 {
			return nil, fmt.Errorf("article %q has no positive id", a.Title)
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate article id %d", a.ID)
		}
		byID[a.ID] = i
	}
	return &Catalog{articles: sorted, byID: byID}, nil
}

// All returns a copy of every article.
func (c *Catalog) All() []news.Article {
	out := make([]news.Article, len(c.articles))
	copy(out, c.articles)
	return out
}

func (c *Catalog) Len() int { return len(c.articles) }

func (c *Catalog) Get(id int) (news.Article, error) {
	i, ok := c.byID[id]
	if !ok {
		return news.Article{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c.articles[i], nil
}

// Lookup returns the articles for ids in the given order, skipping unknown IDs.
func (c *Catalog) Lookup(ids []int) []news.Article {
	out := make([]news.Article, 0, len(ids))
	for _, id := range ids {
		if i, ok := c.byID[id]; ok {
			out = append(out, c.articles[i])
		}
	}
	return out
}

// Except returns every article other than id.
func (c *Catalog) Except(id int) []news.Article {
	out := make([]news.Article, 0, len(c.articles))
	for _, a := range c.articles {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// Visible applies the reader's category filters. An empty category means all.
func (c *Catalog) Visible(category string, s news.Settings) []news.Article {
	out := make([]news.Article, 0, len(c.articles))
	for _, a := range c.articles {
		if category != "" && a.Category != category {
			continue
		}
		if s.Hides(a.Category) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Top returns the first n visible articles, used as the default briefing lineup.
func (c *Catalog) Top(n int, s news.Settings) []news.Article {
	visible := c.Visible("", s)
	if n > 0 && len(visible) > n {
		visible = visible[:n]
	}
	return visible
}
