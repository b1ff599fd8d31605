package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/constant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
)

// PatchDelivery pushes a payload to every live connection of a session.
// Implemented by the websocket hub.
type PatchDelivery interface {
	Send(sessionID string, payload interface{})
}

// IConsumerService drains the in-process bus: every patch event is
// forwarded to connected widgets and mirrored onto the analytics stream.
type IConsumerService interface {
	Start(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	delivery  PatchDelivery
	analytics AnalyticsPublisher
	logger    logger.ILogger
}

// NewConsumerService wires the delivery consumer. delivery and analytics
// may each be nil; the corresponding fan-out leg is then skipped.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	delivery PatchDelivery,
	analytics AnalyticsPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		delivery:  delivery,
		analytics: analytics,
		logger:    log,
	}
}

// Start subscribes and blocks draining messages until ctx is cancelled.
func (cs *consumerService) Start(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, constant.ChatEventsTopic)
	if err != nil {
		return err
	}

	cs.logger.Info("Consumer", "Draining chat events", map[string]interface{}{"topic": constant.ChatEventsTopic})

	for msg := range messages {
		var event dto.ChatPatchEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			cs.logger.Warn("Consumer", "Malformed patch event, dropping", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}

		cs.handlePatch(ctx, event)
		msg.Ack()
	}

	return nil
}

func (cs *consumerService) handlePatch(ctx context.Context, event dto.ChatPatchEvent) {
	if cs.delivery != nil {
		cs.delivery.Send(event.SessionId, map[string]interface{}{
			"type": "message_patch",
			"data": event,
		})
	}

	if cs.analytics != nil {
		analyticsEvent := events.NewChatEvent(patchEventType(event.Phase), event.SessionId, map[string]interface{}{
			"message_id": event.MessageId,
		})
		if err := cs.analytics.Publish(ctx, analyticsEvent); err != nil {
			cs.logger.Warn("Consumer", "Failed to publish analytics event", map[string]interface{}{
				"session_id": event.SessionId,
				"error":      err.Error(),
			})
		}
	}
}

func patchEventType(phase string) string {
	switch phase {
	case constant.PatchPhaseErrored:
		return events.TypeRoundTripErrored
	case constant.PatchPhaseHydrated:
		return events.TypeHydrationCompleted
	default:
		return events.TypeRoundTripAnswered
	}
}
