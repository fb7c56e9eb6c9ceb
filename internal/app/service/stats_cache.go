package service

import "context"

// StatsCache is the read-through cache the dashboard endpoints consult before
// recomputing. A nil cache disables caching; the redis-backed implementation
// lives in platform/cache.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, v interface{})
	Invalidate(ctx context.Context, keys ...string)
}

func studentStatsKey(studentID string) string { return "stats:student:" + studentID }
func teacherStatsKey(teacherID string) string { return "stats:teacher:" + teacherID }

func cacheGet(ctx context.Context, c StatsCache, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	return c.GetJSON(ctx, key, dest)
}

func cacheSet(ctx context.Context, c StatsCache, key string, v interface{}) {
	if c != nil {
		c.SetJSON(ctx, key, v)
	}
}

func cacheInvalidate(ctx context.Context, c StatsCache, keys ...string) {
	if c != nil {
		c.Invalidate(ctx, keys...)
	}
}
