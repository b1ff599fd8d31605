package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is the relational archive of a message once its round-trip
// settled. The live conversation state lives in pkg/store; this record
// feeds history and admin listings.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Text          string
	Status        string
	ResultIds     []string
	CreatedAt     time.Time
}
