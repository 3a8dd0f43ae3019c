package inkwell

import "time"

// Now returns the current time in unix milliseconds, the timestamp
// format used across the persisted layout.
func Now() int64 {
	return time.Now().UnixMilli()
}
