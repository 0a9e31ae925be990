package domain

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the transcript of one chat session. It grows until the
// session is cleared.
type Conversation struct {
	SessionID string    `json:"sessionId"`
	UserID    *int64    `json:"userId,omitempty"`
	AgentID   *int64    `json:"agentId,omitempty"`
	Messages  []Message `json:"messages"`
}

// Intent is the classified purpose of a chat message.
type Intent string

const (
	IntentCreateAgent  Intent = "create_agent"
	IntentSendPayment  Intent = "send_payment"
	IntentCheckBalance Intent = "check_balance"
	IntentConversation Intent = "conversation"
)

func (i Intent) IsValid() bool {
	switch i {
	case IntentCreateAgent, IntentSendPayment, IntentCheckBalance, IntentConversation:
		return true
	default:
		return false
	}
}

// Command is the result of classifying a chat message.
type Command struct {
	Action     Intent         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Confidence float64        `json:"confidence"`
}
