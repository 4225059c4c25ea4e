package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/redis/go-redis/v9"
)

// MatchEventsChannel is where match lifecycle events are published for the
// game-session service.
const MatchEventsChannel = "match_events"

// Connect establishes a connection to Redis
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// EventPublisher publishes match events on a pub/sub channel.
type EventPublisher struct {
	client  *redis.Client
	channel string
}

func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{client: client, channel: MatchEventsChannel}
}

func (p *EventPublisher) PublishMatchEvent(ctx context.Context, evt game.MatchEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Type, err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s event: %w", evt.Type, err)
	}
	log.Printf("[EVENTS] %s room=%s published to %s (subscribers=%d)", evt.Type, evt.RoomID, p.channel, receivers)
	return nil
}
