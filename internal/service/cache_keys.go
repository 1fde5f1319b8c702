package service

// Cache keys for the hot list endpoints. Write paths invalidate by pattern
// so sibling keys (filtered variants) fall out together.
const (
	draftListCacheKey    = "planner:drafts:list"
	draftCachePattern    = "planner:drafts:*"
	scheduleListCacheKey = "planner:schedules:list"
	scheduleCachePattern = "planner:schedules:*"
)
