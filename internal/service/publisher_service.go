package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
)

// IPublisherService pushes message-patch notifications onto the
// in-process bus; the consumer service fans them out to websockets and
// the analytics stream.
type IPublisherService interface {
	PublishPatch(ctx context.Context, event dto.ChatPatchEvent) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) PublishPatch(ctx context.Context, event dto.ChatPatchEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.pubSub.Publish(ps.topicName, msg)
}
