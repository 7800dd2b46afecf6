// README: Redis pub/sub transport adapter; one channel per scope.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter publishes the event envelope onto per-scope Redis channels
// (e.g. "events:u123", "events:admin", "events:*"). Clients attached through
// a channel subscription observe the same payloads as websocket clients.
type RedisAdapter struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisAdapter(client *redis.Client, prefix string) *RedisAdapter {
	if prefix == "" {
		prefix = "events:"
	}
	return &RedisAdapter{client: client, prefix: prefix, timeout: 2 * time.Second}
}

// Deliver is fire-and-forget: publish errors are logged and swallowed so a
// broker hiccup never stalls or fails the order mutation that triggered it.
func (a *RedisAdapter) Deliver(scope string, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("realtime: marshal event %s: %v", evt.Kind, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.client.Publish(ctx, a.prefix+scope, payload).Err(); err != nil {
			log.Printf("realtime: redis publish %s: %v", evt.Kind, err)
		}
	}()
}
