package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeedChannel carries every feed event published by the backend.
const FeedChannel = "feed:events"

// Feed event types.
const (
	EventPostCreated  = "post_created"
	EventPostLiked    = "post_liked"
	EventPostUnliked  = "post_unliked"
	EventCommentAdded = "comment_added"
	EventReplyAdded   = "reply_added"
)

// FeedEvent describes one change to the shared feed.
type FeedEvent struct {
	Type      string    `json:"type"`
	PostID    uint      `json:"post_id"`
	ActorID   uint      `json:"actor_id"`
	CommentID uint      `json:"comment_id,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier publishes feed events into Redis.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish sends ev on the feed channel. A notifier without Redis is a no-op.
func (n *Notifier) Publish(ctx context.Context, ev FeedEvent) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, FeedChannel, string(payload)).Err()
}

// Subscribe calls onEvent for every feed event until ctx is done.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(FeedEvent)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	// Wait for the subscription to be confirmed so no early event is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev FeedEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("feed subscriber: dropping malformed event: %v", err)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in feed subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}
