package types

import "time"

// Role identifies the author of a conversation message
type Role string

// Message roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AgentType identifies which specialized agent handled a request
type AgentType string

// Agent types
const (
	AgentRouter          AgentType = "router"
	AgentCompanyResearch AgentType = "company_research"
	AgentJobMatching     AgentType = "job_matching"
	AgentTranslation     AgentType = "translation"
)

// Context keys accumulated across conversation turns.
// Once set, a key persists until explicitly overwritten.
const (
	ContextTargetCompany  = "target_company"
	ContextJobDescription = "job_description"
	ContextTargetLanguage = "target_language"
	ContextTargetRegion   = "target_region"
)

// Message is one turn in a conversation
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	AgentType AgentType `json:"agent_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation holds the message history and sticky context for one session
type Conversation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	ResumeID  string            `json:"resume_id,omitempty"`
	Messages  []Message         `json:"messages"`
	Context   map[string]string `json:"context"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// History returns the most recent messages, oldest first, up to limit.
func (c *Conversation) History(limit int) []Message {
	if limit <= 0 || len(c.Messages) <= limit {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-limit:]
}

// AddMessage appends a message and bumps the update timestamp.
func (c *Conversation) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now().UTC()
}

// MergeContext folds new key/value pairs into the conversation context.
// Existing keys are only overwritten when the incoming value is non-empty.
func (c *Conversation) MergeContext(updates map[string]string) {
	if c.Context == nil {
		c.Context = make(map[string]string, len(updates))
	}
	for k, v := range updates {
		if v != "" {
			c.Context[k] = v
		}
	}
}
