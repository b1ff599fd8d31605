package events

import "time"

// Chat analytics event types published to the bus.
const (
	TypeRoundTripAnswered  = "CHAT_ROUNDTRIP_ANSWERED"
	TypeRoundTripErrored   = "CHAT_ROUNDTRIP_ERRORED"
	TypeHydrationCompleted = "CHAT_HYDRATION_COMPLETED"
	TypeSessionCleared     = "CHAT_SESSION_CLEARED"
	TypeWidgetOpened       = "WIDGET_OPENED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_ROUNDTRIP_ANSWERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation used across the service.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChatEvent builds a chat analytics event for one session.
func NewChatEvent(eventType, sessionID string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["session_id"] = sessionID
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
