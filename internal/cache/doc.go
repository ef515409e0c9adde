// Package cache defines the in-memory, time-bounded cache shared by request
// handlers. Entries carry their creation timestamp and are considered fresh only
// while their age is below the instance's freshness window. Staleness is purely
// pull-based: nothing is swept or evicted in the background, an expired entry is
// simply treated as a miss and replaced by the next Put. Clear empties the whole
// cache and backs the administrative refresh operations.
package cache
