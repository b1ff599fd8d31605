package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/constant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
)

type recordingDelivery struct {
	mu       sync.Mutex
	sessions []string
}

func (r *recordingDelivery) Send(sessionID string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, sessionID)
}

func (r *recordingDelivery) delivered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sessions))
	copy(out, r.sessions)
	return out
}

func TestConsumer_DeliversPatchesAndAnalytics(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	delivery := &recordingDelivery{}
	analytics := &recordingAnalytics{}

	consumer := NewConsumerService(pubSub, delivery, analytics, nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.Start(ctx)

	publisher := NewPublisherService(constant.ChatEventsTopic, pubSub)
	// the subscriber needs a moment to attach before the first publish
	time.Sleep(20 * time.Millisecond)

	err := publisher.PublishPatch(ctx, dto.ChatPatchEvent{
		SessionId: "s1", MessageId: "m1", Phase: constant.PatchPhaseAnswered, OccurredAt: time.Now(),
	})
	assert.NoError(t, err)
	err = publisher.PublishPatch(ctx, dto.ChatPatchEvent{
		SessionId: "s1", MessageId: "m1", Phase: constant.PatchPhaseHydrated, OccurredAt: time.Now(),
	})
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(delivery.delivered()) == 2 && len(analytics.types()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"s1", "s1"}, delivery.delivered())
	assert.Equal(t, []string{events.TypeRoundTripAnswered, events.TypeHydrationCompleted}, analytics.types())
}

func TestPatchEventTypeMapping(t *testing.T) {
	assert.Equal(t, events.TypeRoundTripAnswered, patchEventType(constant.PatchPhaseAnswered))
	assert.Equal(t, events.TypeRoundTripErrored, patchEventType(constant.PatchPhaseErrored))
	assert.Equal(t, events.TypeHydrationCompleted, patchEventType(constant.PatchPhaseHydrated))
}
