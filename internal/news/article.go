package news

// Article is one news item as shown to readers. AI annotations are optional and
// are never written back to the source catalog.
type Article struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Excerpt  string `json:"excerpt" yaml:"excerpt"`
	Content  string `json:"content" yaml:"content"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
	Author   string `json:"author" yaml:"author"`
	Date     string `json:"date" yaml:"date"`
	Category string `json:"category" yaml:"category"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`

	KeyTakeaways []string `json:"keyTakeaways,omitempty" yaml:"keyTakeaways,omitempty"`
	Sentiment    string   `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	HasTimeline  bool     `json:"hasTimeline,omitempty" yaml:"hasTimeline,omitempty"`
}

// Byline returns the author name, or a neutral stand-in when missing.
func (a Article) Byline() string {
	if a.Author == "" {
		return "the author"
	}
	return a.Author
}

// QuizQuestion is a multiple-choice question about an article.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Valid reports whether the question has four options and the answer is one of them.
func (q QuizQuestion) Valid() bool {
	if q.Question == "" || len(q.Options) != 4 {
		return false
	}
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			return true
		}
	}
	return false
}

// TimelineEvent is one dated step in the background of a story.
type TimelineEvent struct {
	Year        string `json:"year"`
	Description string `json:"description"`
}

// KeyConcept is a named entity or idea explained for the reader.
type KeyConcept struct {
	Term        string      `json:"term"`
	Type        ConceptType `json:"type"`
	Description string      `json:"description"`
}

// FactCheck is the verdict and explanation for an article's claims.
type FactCheck struct {
	Status  FactStatus `json:"status"`
	Summary string     `json:"summary"`
}
