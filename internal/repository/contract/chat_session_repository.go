package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/entity"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/specification"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
