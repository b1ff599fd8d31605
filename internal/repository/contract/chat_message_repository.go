package contract

import (
	"context"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/entity"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
