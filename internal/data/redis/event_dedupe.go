// Package redis keeps short-lived processing state in Redis
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "payments:event:"

// EventDedupe remembers processed event ids so that Kafka redeliveries are
// applied only once.
type EventDedupe struct {
	client goredis.Cmdable
	ttl    time.Duration
}

func NewEventDedupe(client goredis.Cmdable, ttl time.Duration) *EventDedupe {
	return &EventDedupe{client: client, ttl: ttl}
}

// MarkSeen records the id and reports whether it was already recorded
func (d *EventDedupe) MarkSeen(ctx context.Context, eventID uuid.UUID) (bool, error) {
	created, err := d.client.SetNX(ctx, eventKeyPrefix+eventID.String(), 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record event id %s: %w", eventID, err)
	}
	return !created, nil
}
