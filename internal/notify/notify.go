// Package notify publishes settlement change events for cross-client sync.
// Delivery is best effort: the workflow logs publish failures and moves on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event kinds.
const (
	KindSettlement   = "settlement"
	KindConfirmation = "confirmation"
	KindEscalation   = "escalation"
)

// Event describes one successful write.
type Event struct {
	Kind                string    `json:"kind"`
	Action              string    `json:"action"`
	ID                  string    `json:"id"`
	SettlementRequestID string    `json:"settlement_request_id"`
	CaseID              string    `json:"case_id,omitempty"`
	Status              string    `json:"status"`
	ActorUser           string    `json:"actor_user"`
	At                  time.Time `json:"at"`
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// LogPublisher writes events to slog. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev Event) error {
	p.logger.DebugContext(ctx, "Change event",
		"kind", ev.Kind,
		"action", ev.Action,
		"id", ev.ID,
		"settlement_id", ev.SettlementRequestID,
		"status", ev.Status,
	)
	return nil
}

// RedisPublisher publishes JSON events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to addr and verifies the connection with PING.
func NewRedisPublisher(ctx context.Context, addr, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisPublisher{client: client, channel: channel}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of decoded events. It closes when ctx is done.
func (p *RedisPublisher) Subscribe(ctx context.Context) <-chan Event {
	sub := p.client.Subscribe(ctx, p.channel)
	out := make(chan Event)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					slog.Warn("Dropping malformed change event", "error", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// Recorder keeps published events in memory. Tests use it to assert on the feed.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
