package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type MessageType string

const (
	CategoryTreeInvalidated MessageType = "category.tree.invalidate"
	CategoryChanged         MessageType = "category.invalidate"
)

type Message struct {
	Type      MessageType `json:"type"`
	Payload   string      `json:"payload"`
	Source    string      `json:"source"`
	Timestamp int64       `json:"timestamp"`
}

// Publisher sends cache invalidation messages over Redis pub/sub as JSON.
type Publisher struct {
	client  *redis.Client
	channel string
	source  string
}

func NewPublisher(client *redis.Client, channel, source string) *Publisher {
	return &Publisher{client: client, channel: channel, source: source}
}

func (p *Publisher) Publish(ctx context.Context, messageType MessageType, payload string) error {
	msg := Message{
		Type:      messageType,
		Payload:   payload,
		Source:    p.source,
		Timestamp: time.Now().Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		util.LogError("failed to marshal cache message", err)
		return err
	}

	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		util.LogError("failed to publish cache message", err, zap.String("type", string(messageType)))
		return err
	}

	util.Logger().Debug("published cache message", zap.ByteString("message", body))
	return nil
}

// Subscribe calls handle for every message on the channel until ctx is done.
// Messages that do not decode are logged and skipped.
func (p *Publisher) Subscribe(ctx context.Context, handle func(Message)) error {
	sub := p.client.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-ch:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				util.LogWarning("dropping malformed cache message", zap.String("payload", raw.Payload))
				continue
			}
			handle(msg)
		}
	}
}
