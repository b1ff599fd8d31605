package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminSessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Mode      string     `json:"mode"`
	Messages  int64      `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type AdminUsageResponse struct {
	EventType string `json:"event_type"`
	Day       string `json:"day"`
	Count     int64  `json:"count"`
}
