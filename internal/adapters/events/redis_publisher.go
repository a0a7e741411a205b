package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPublisher broadcasts scheduling events over Redis Pub/Sub so that
// downstream consumers (notification workers, dashboards) can react to
// committed schedules and emergency resolutions.
type RedisPublisher struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
	log     zerolog.Logger
}

type envelope struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// NewRedisPublisher connects to the given Redis URL (redis://host:port/db).
// The connection is verified eagerly so a misconfigured broker fails at
// startup rather than on the first event.
func NewRedisPublisher(ctx context.Context, url string, log zerolog.Logger) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisPublisher{
		rdb:     rdb,
		prefix:  "scheduling:",
		timeout: 2 * time.Second,
		log:     log,
	}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, kind string, payload any) error {
	data, err := json.Marshal(envelope{Kind: kind, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal event %q: %w", kind, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, p.prefix+kind, data).Err(); err != nil {
		return fmt.Errorf("publish event %q: %w", kind, err)
	}
	p.log.Debug().Str("kind", kind).Msg("event published")
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, kind string, payload any) error { return nil }
