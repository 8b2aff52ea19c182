package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
)

// RedisBroadcaster carries logout events between processes over a Redis
// pub/sub channel. The last event is also written to a key whose value
// changes on every logout, so late joiners can inspect it.
type RedisBroadcaster struct {
	client  redis.UniversalClient
	channel string
	lastKey string
}

// NewRedisBroadcaster creates a Redis-backed broadcaster. The prefix
// namespaces the channel and key; an empty prefix uses the library
// defaults.
func NewRedisBroadcaster(client redis.UniversalClient, prefix string) *RedisBroadcaster {
	channel := constants.LogoutChannel
	lastKey := constants.LogoutLastKey
	if prefix != "" {
		channel = prefix + ":" + channel
		lastKey = prefix + ":" + lastKey
	}
	return &RedisBroadcaster{client: client, channel: channel, lastKey: lastKey}
}

// Publish implements Broadcaster.Publish.
func (b *RedisBroadcaster) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal logout event: %w", err)
	}

	pipe := b.client.TxPipeline()
	pipe.Set(ctx, b.lastKey, data, 0)
	pipe.Publish(ctx, b.channel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish logout event: %w", err)
	}
	return nil
}

// Subscribe implements Broadcaster.Subscribe. The handler runs on a
// dedicated goroutine until the returned function is called.
func (b *RedisBroadcaster) Subscribe(handler func(Event)) (func(), error) {
	sub := b.client.Subscribe(context.Background(), b.channel)
	if _, err := sub.Receive(context.Background()); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to logout channel: %w", err)
	}

	go func() {
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			handler(ev)
		}
	}()

	return func() { _ = sub.Close() }, nil
}
