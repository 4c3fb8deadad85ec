package utils

import "time"

// NextID returns a millisecond timestamp ID that is strictly greater than last,
// so two records created within the same millisecond still get distinct IDs.
func NextID(now time.Time, last int64) int64 {
	id := now.UnixMilli()
	if id <= last {
		return last + 1
	}
	return id
}
