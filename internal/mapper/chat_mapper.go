package mapper

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/entity"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/model"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/store"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		Mode:      s.Mode,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:        s.Id,
		Mode:      s.Mode,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var resultIds []string
	if msg.ResultIds != "" {
		resultIds = strings.Split(msg.ResultIds, ",")
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Text:          msg.Text,
		Status:        msg.Status,
		ResultIds:     resultIds,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Text:          msg.Text,
		Status:        msg.Status,
		ResultIds:     strings.Join(msg.ResultIds, ","),
		CreatedAt:     msg.CreatedAt,
	}
}

// Live-state mappers

func (m *ChatMapper) MessageToDTO(msg *store.Message) *dto.MessageDTO {
	if msg == nil {
		return nil
	}

	results := make([]dto.AgentCardDTO, 0, len(msg.Results))
	for _, card := range msg.Results {
		results = append(results, dto.AgentCardDTO{
			Id:          card.ID,
			Name:        card.Name,
			Description: card.Description,
			Category:    card.Category,
			Rating:      card.Rating,
			Tags:        card.Tags,
		})
	}

	return &dto.MessageDTO{
		Id:        msg.ID,
		Role:      msg.Role,
		Text:      msg.Text,
		Time:      msg.Time,
		Status:    msg.Status,
		ResultIds: msg.ResultIDs,
		Results:   results,
	}
}

func (m *ChatMapper) SessionToSnapshotDTO(session *store.Session) *dto.ChatSessionSnapshotResponse {
	messages := make([]dto.MessageDTO, 0, len(session.Messages))
	for i := range session.Messages {
		messages = append(messages, *m.MessageToDTO(&session.Messages[i]))
	}
	return &dto.ChatSessionSnapshotResponse{
		SessionId: session.SessionID,
		Mode:      session.Mode,
		Messages:  messages,
	}
}
