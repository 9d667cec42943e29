package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

// RelayChannel is the Redis channel question events travel on
const RelayChannel = "trivia:questions"

// Relay fans question events out through Redis pub/sub so that every API
// instance delivers them to its own websocket clients.
type Relay struct {
	redis *redis.Client
	hub   *Hub
}

// NewRelay creates a relay that delivers to hub
func NewRelay(client *redis.Client, hub *Hub) *Relay {
	return &Relay{redis: client, hub: hub}
}

// Publish sends event to all instances, this one included
func (r *Relay) Publish(ctx context.Context, event domain.QuestionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return r.redis.Publish(ctx, RelayChannel, data).Err()
}

// Listen forwards events received from Redis to the hub until ctx is done.
// The subscription is confirmed before Listen starts its loop.
func (r *Relay) Listen(ctx context.Context) error {
	pubsub := r.redis.Subscribe(ctx, RelayChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", RelayChannel, err)
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.QuestionEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("dropping malformed question event: %v", err)
					continue
				}
				if err := r.hub.Publish(ctx, event); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
