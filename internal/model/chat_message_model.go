package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role          string    `gorm:"type:text;not null"`
	Text          string    `gorm:"type:text;not null"`
	Status        string    `gorm:"type:text;not null"`
	ResultIds     string    `gorm:"type:text"` // comma-joined agent ids
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
