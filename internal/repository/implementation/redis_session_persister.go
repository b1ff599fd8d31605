package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/store"
)

const sessionKeyPrefix = "tngrm:chat:session:"

// RedisSessionPersister implements store.Persister over Redis: one key
// per session holding the serialized {messages, session_id, mode} triple.
// Save failures are logged and swallowed; the in-memory store stays
// authoritative.
type RedisSessionPersister struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

func NewRedisSessionPersister(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *RedisSessionPersister {
	return &RedisSessionPersister{rdb: rdb, ttl: ttl, logger: log}
}

func (p *RedisSessionPersister) Load(ctx context.Context, sessionID string) (*store.Session, error) {
	if p.rdb == nil {
		return nil, nil
	}
	raw, err := p.rdb.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var session store.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *RedisSessionPersister) Save(ctx context.Context, session *store.Session) error {
	if p.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := p.rdb.Set(ctx, sessionKeyPrefix+session.SessionID, raw, p.ttl).Err(); err != nil {
		if p.logger != nil {
			p.logger.Warn("SessionPersister", "Failed to persist session", map[string]interface{}{
				"session_id": session.SessionID,
				"error":      err.Error(),
			})
		}
		return err
	}
	return nil
}

func (p *RedisSessionPersister) Delete(ctx context.Context, sessionID string) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
