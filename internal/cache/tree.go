package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const invalidateTimeout = 5 * time.Second

// TreeCache holds the rendered category tree in process memory and in Redis.
// Redis failures degrade to the in-process copy; they are never returned.
type TreeCache struct {
	client    *redis.Client
	publisher *Publisher
	key       string
	ttl       time.Duration

	mu      sync.RWMutex
	tree    []*models.Category
	expires time.Time
}

func NewTreeCache(client *redis.Client, publisher *Publisher, key string, ttl time.Duration) *TreeCache {
	return &TreeCache{client: client, publisher: publisher, key: key, ttl: ttl}
}

func (c *TreeCache) Get(ctx context.Context) ([]*models.Category, bool) {
	c.mu.RLock()
	tree, expires := c.tree, c.expires
	c.mu.RUnlock()
	if tree != nil && time.Now().Before(expires) {
		return tree, true
	}

	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			util.LogWarning("category tree cache read failed", zap.Error(err))
		}
		return nil, false
	}

	if err := json.Unmarshal(raw, &tree); err != nil {
		util.LogWarning("category tree cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	c.storeLocal(tree)
	return tree, true
}

func (c *TreeCache) Set(ctx context.Context, tree []*models.Category) {
	if tree == nil {
		tree = []*models.Category{}
	}
	c.storeLocal(tree)

	raw, err := json.Marshal(tree)
	if err != nil {
		util.LogError("failed to encode category tree", err)
		return
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		util.LogWarning("category tree cache write failed", zap.Error(err))
	}
}

// Invalidate drops both copies and tells other instances to drop theirs. It
// still reaches Redis when ctx is already done.
func (c *TreeCache) Invalidate(ctx context.Context) {
	c.dropLocal()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		util.LogWarning("category tree cache delete failed", zap.Error(err))
	}
	if c.publisher != nil {
		_ = c.publisher.Publish(ctx, CategoryTreeInvalidated, c.key)
	}
}

// Listen drops the in-process copy whenever another instance invalidates the
// tree. It blocks until ctx is done.
func (c *TreeCache) Listen(ctx context.Context) error {
	if c.publisher == nil {
		<-ctx.Done()
		return nil
	}
	return c.publisher.Subscribe(ctx, func(msg Message) {
		if msg.Source == c.publisher.source {
			return
		}
		switch msg.Type {
		case CategoryTreeInvalidated, CategoryChanged:
			c.dropLocal()
		}
	})
}

func (c *TreeCache) storeLocal(tree []*models.Category) {
	c.mu.Lock()
	c.tree = tree
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *TreeCache) dropLocal() {
	c.mu.Lock()
	c.tree = nil
	c.mu.Unlock()
}
