package dto

import "time"

type AgentCardDTO struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Rating      float32  `json:"rating"`
	Tags        []string `json:"tags,omitempty"`
}

type MessageDTO struct {
	Id        string         `json:"id"`
	Role      string         `json:"role"`
	Text      string         `json:"text"`
	Time      string         `json:"time"`
	Status    string         `json:"status"`
	ResultIds []string       `json:"result_ids,omitempty"`
	Results   []AgentCardDTO `json:"results,omitempty"`
}

type CreateChatSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=create explore"`
}

type ChatSessionSnapshotResponse struct {
	SessionId string       `json:"session_id"`
	Mode      string       `json:"mode"`
	Messages  []MessageDTO `json:"messages"`
}

type SendChatRequest struct {
	SessionId string `json:"session_id"`
	Query     string `json:"query" validate:"required"`
}

type SendChatResponse struct {
	SessionId string      `json:"session_id"`
	Mode      string      `json:"mode"`
	Sent      *MessageDTO `json:"sent"`
	Reply     *MessageDTO `json:"reply"`
}

type SetModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=create explore"`
}

type ClearSessionResponse struct {
	SessionId string `json:"session_id"`
}

// ChatPatchEvent travels over the in-process bus whenever an assistant
// message is patched, so connected widgets can be notified.
type ChatPatchEvent struct {
	SessionId  string    `json:"session_id"`
	MessageId  string    `json:"message_id"`
	Phase      string    `json:"phase"` // answered | errored | hydrated
	OccurredAt time.Time `json:"occurred_at"`
}
