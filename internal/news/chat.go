package news

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatUser  ChatRole = "user"
	ChatModel ChatRole = "model"
)

// ChatMessage is one turn of a question-and-answer exchange about an article.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Conversation is an append-only message list bound to one article.
type Conversation struct {
	articleID int
	messages  []ChatMessage
}

// Bind attaches the conversation to articleID, clearing it when the subject changes.
// It reports whether a reset happened.
func (c *Conversation) Bind(articleID int) bool {
	if c.articleID == articleID {
		return false
	}
	c.articleID = articleID
	c.messages = nil
	return true
}

func (c *Conversation) ArticleID() int { return c.articleID }

func (c *Conversation) Append(m ChatMessage) {
	c.messages = append(c.messages, m)
}

// Messages returns a copy of the history, oldest first.
func (c *Conversation) Messages() []ChatMessage {
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int { return len(c.messages) }
