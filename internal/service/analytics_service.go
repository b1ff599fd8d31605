package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
	natspkg "github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/nats"
)

// usageKeyPrefix namespaces the per-day usage counters in redis.
const usageKeyPrefix = "tngrm:usage:"

// IAnalyticsService consumes the durable event stream and maintains
// usage counters for the admin dashboard.
type IAnalyticsService interface {
	Start() error
	GetUsage(ctx context.Context, eventType string, day time.Time) (int64, error)
}

type analyticsService struct {
	subscriber *natspkg.Subscriber
	rdb        *redis.Client
	logger     logger.ILogger
}

func NewAnalyticsService(subscriber *natspkg.Subscriber, rdb *redis.Client, log logger.ILogger) IAnalyticsService {
	return &analyticsService{
		subscriber: subscriber,
		rdb:        rdb,
		logger:     log,
	}
}

// Start attaches a durable consumer over all chat events. Safe to call
// when NATS or redis is absent; the service then idles.
func (as *analyticsService) Start() error {
	if as.subscriber == nil {
		as.logger.Warn("Analytics", "No event subscriber, usage counters disabled", nil)
		return nil
	}
	return as.subscriber.Subscribe("agentstore.>", "analytics-usage", as.handleEvent)
}

func (as *analyticsService) handleEvent(ctx context.Context, event events.Event) error {
	if as.rdb == nil {
		return nil
	}

	key := usageKey(event.EventType(), event.Timestamp())
	if err := as.rdb.Incr(ctx, key).Err(); err != nil {
		return err
	}
	// counters expire after the retention window; no cleanup job needed
	as.rdb.Expire(ctx, key, 90*24*time.Hour)
	return nil
}

func (as *analyticsService) GetUsage(ctx context.Context, eventType string, day time.Time) (int64, error) {
	if as.rdb == nil {
		return 0, nil
	}

	count, err := as.rdb.Get(ctx, usageKey(eventType, day)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

func usageKey(eventType string, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", usageKeyPrefix, eventType, day.Format("2006-01-02"))
}
