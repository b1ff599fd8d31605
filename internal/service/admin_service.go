package service

import (
	"context"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/contract"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/specification"
)

// IAdminService backs the operator dashboard: archived session listings
// and access to the service log.
type IAdminService interface {
	ListSessions(ctx context.Context, limit, offset int) ([]dto.AdminSessionResponse, error)
	GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	sessions contract.ChatSessionRepository
	messages contract.ChatMessageRepository
	logger   logger.ILogger
}

func NewAdminService(
	sessions contract.ChatSessionRepository,
	messages contract.ChatMessageRepository,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		sessions: sessions,
		messages: messages,
		logger:   log,
	}
}

func (as *adminService) ListSessions(ctx context.Context, limit, offset int) ([]dto.AdminSessionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := as.sessions.FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AdminSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		count, err := as.messages.Count(ctx, specification.ByChatSessionID{ChatSessionID: session.Id})
		if err != nil {
			as.logger.Warn("Admin", "Failed to count session messages", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
		out = append(out, dto.AdminSessionResponse{
			Id:        session.Id,
			Mode:      session.Mode,
			Messages:  count,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		})
	}
	return out, nil
}

func (as *adminService) GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return as.logger.GetLogs(level, limit, offset)
}
