package domain

import "time"

type ActivityType string

const (
	ActivityAgentAction ActivityType = "agent_action"
	ActivitySystemEvent ActivityType = "system_event"
	ActivityUserAction  ActivityType = "user_action"
)

// Activity is an append-only feed entry produced as a side effect of
// agent and payment state changes.
type Activity struct {
	ID          int64          `json:"id"`
	Type        ActivityType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	AgentID     *int64         `json:"agentId,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// DefaultActivityLimit is the page size of the activity feed.
const DefaultActivityLimit = 10
