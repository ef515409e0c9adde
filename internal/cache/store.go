package cache

import "time"

// Cache 是按字符串键存取的 TTL 缓存抽象。调用方只依赖该接口，
// 便于后续替换为分片或无锁实现。
type Cache[V any] interface {
	// Get 仅当条目存在且未过期时返回值的副本。
	Get(key string) (V, bool)

	// Put 无条件覆盖旧条目，并以当前时间重新计时。
	Put(key string, value V)

	// Clear 原子地清空所有条目。
	Clear()

	// Len 返回当前保存的条目数（包含已过期但尚未被替换的条目）。
	Len() int
}

// Entry 包装缓存值与写入时间。
type Entry[V any] struct {
	Value    V
	CachedAt time.Time
}

// Fresh 判断条目在 ttl 窗口内是否仍然有效。
func (e Entry[V]) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}

// 各缓存实例的默认新鲜度窗口。
const (
	DocumentTTL = time.Hour
	ProjectTTL  = 24 * time.Hour
)
