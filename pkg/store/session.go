package store

// Message roles. The assistant role covers both the seed greeting and
// generated replies.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation modes. Explore asks the backend to search the catalog,
// create asks it to scope a new agent.
const (
	ModeCreate  = "create"
	ModeExplore = "explore"
)

// Message statuses. A pending message is a placeholder whose text has not
// arrived yet; the presentation layer renders it as a typing indicator.
const (
	StatusPending  = "pending"
	StatusAnswered = "answered"
	StatusErrored  = "errored"
)

const (
	// SeedGreeting is the permanent first message of every conversation.
	SeedGreeting = "Hi! I'm your agent store assistant. Tell me what you need and I'll find the right agent for you."

	// TimeLayout is the display format for message timestamps.
	TimeLayout = "3:04 PM"
)

// AgentCard is the hydrated form of an agent identifier returned by the
// conversational backend.
type AgentCard struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Rating      float32  `json:"rating"`
	Tags        []string `json:"tags,omitempty"`
}

// Message is a single entry in a conversation. ResultIDs and Results are
// only ever set on assistant messages that produced catalog matches;
// Results trails ResultIDs because hydration completes after the reply.
type Message struct {
	ID        string      `json:"id"`
	Role      string      `json:"role"`
	Text      string      `json:"text"`
	Time      string      `json:"time"`
	Status    string      `json:"status"`
	ResultIDs []string    `json:"result_ids,omitempty"`
	Results   []AgentCard `json:"results,omitempty"`
}

// Session is the durable unit of conversation state. It is what the
// Persister serializes on every mutation.
type Session struct {
	SessionID string    `json:"session_id"`
	Mode      string    `json:"mode"`
	Messages  []Message `json:"messages"`
}
