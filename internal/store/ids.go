package store

import (
	"strconv"
	"time"
)

// NewTimeID returns a time-based id (unix millis) that is not yet in use.
//
// These ids are far larger than any post number, so inserted tags sort after
// extracted ones. If two inserts land on the same millisecond the id is bumped
// until it is free.
func (s *Store) NewTimeID(now time.Time) string {
	n := now.UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if !s.Has(id) {
			return id
		}
		n++
	}
}
