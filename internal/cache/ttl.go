package cache

import (
	"sync"
	"time"
)

// CloneFunc 在读出或写入时复制值，防止调用方修改缓存内部状态。
type CloneFunc[V any] func(V) V

// Option 调整 TTLCache 的可选行为。
type Option[V any] func(*TTLCache[V])

// WithClock 注入时钟，主要用于测试过期逻辑。
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLCache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// WithClone 指定值的复制方式；未指定时按值语义直接返回。
func WithClone[V any](clone CloneFunc[V]) Option[V] {
	return func(c *TTLCache[V]) {
		c.clone = clone
	}
}

// TTLCache 使用单把互斥锁保护 map，临界区只包含 map 读写；
// 渲染或网络 I/O 必须在锁外完成后再调用 Put 提交。
type TTLCache[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	clone CloneFunc[V]

	mu      sync.Mutex
	entries map[string]Entry[V]
}

var _ Cache[string] = (*TTLCache[string])(nil)

// NewTTL 构造固定新鲜度窗口的缓存，ttl <= 0 时所有读取都视为未命中。
func NewTTL[V any](ttl time.Duration, opts ...Option[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL 返回当前实例的新鲜度窗口。
func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()

	if !ok || !entry.Fresh(now, c.ttl) {
		var zero V
		return zero, false
	}
	return c.copy(entry.Value), true
}

func (c *TTLCache[V]) Put(key string, value V) {
	entry := Entry[V]{Value: c.copy(value), CachedAt: c.now()}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry[V])
	c.mu.Unlock()
}

func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTLCache[V]) copy(v V) V {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}
