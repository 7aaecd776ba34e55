package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chitts/storefront-backend/pkg/logger"
	"github.com/chitts/storefront-backend/pkg/redis"
	"github.com/google/uuid"
)

// Notifier fans wallet events out to per-profile Redis channels so connected
// clients see balance changes without polling.
type Notifier interface {
	Publish(ctx context.Context, event ProfileEvent) error
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan ProfileEvent, func(), error)
}

type notifier struct {
	redis *redis.Client
	logg  *logger.Logger
}

// NewNotifier builds a feed notifier backed by Redis pub/sub.
func NewNotifier(client *redis.Client, logg *logger.Logger) (Notifier, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &notifier{redis: client, logg: logg}, nil
}

func (n *notifier) Publish(ctx context.Context, event ProfileEvent) error {
	if event.UserID == uuid.Nil {
		return fmt.Errorf("event user id required")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding feed event: %w", err)
	}
	return n.redis.Publish(ctx, n.redis.FeedChannel(event.UserID.String()), payload)
}

// Subscribe returns a channel of feed events for the user plus a cancel
// function. The channel closes when ctx ends or cancel is called.
func (n *notifier) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan ProfileEvent, func(), error) {
	if userID == uuid.Nil {
		return nil, nil, fmt.Errorf("user id required")
	}
	sub, err := n.redis.Subscribe(ctx, n.redis.FeedChannel(userID.String()))
	if err != nil {
		return nil, nil, fmt.Errorf("subscribing to feed channel: %w", err)
	}

	out := make(chan ProfileEvent)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event ProfileEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					n.logg.Warn(n.logg.WithField(ctx, "error", err.Error()), "decoding feed event")
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					_ = sub.Close()
					return
				case <-done:
					return
				}
			}
		}
	}()
	return out, cancel, nil
}
