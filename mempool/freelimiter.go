// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"math"
	"sync"
	"time"
)

// freeLimiterDecayPerSecond is the fraction of the running byte
// count that decays away each second of elapsed time: a ten-minute
// (600s) decay constant, applied continuously rather than in fixed
// windows.
const freeLimiterDecayPerSecond = 1.0 / 600.0

// FreeLimiter enforces the free-relay policy's exponentially-decaying
// byte budget. Each call decays the running count by the elapsed time
// since the previous call before deciding whether size fits within
// the configured per-minute limit:
// count' = count * (1 - 1/600)^elapsedSeconds + size.
type FreeLimiter struct {
	mu    sync.Mutex
	limit float64
	count float64
	last  time.Time
}

// NewFreeLimiter returns a limiter enforcing limitBytesPerMinute.
func NewFreeLimiter(limitBytesPerMinute float64) *FreeLimiter {
	return &FreeLimiter{limit: limitBytesPerMinute}
}

// Allow decays the running count by the time elapsed since the last
// call, then reports whether adding size would stay within the
// configured limit. If it does, size is added to the running count;
// if not, the count is left unchanged and the caller should reject
// the transaction.
func (f *FreeLimiter) Allow(size int, now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.last.IsZero() && now.After(f.last) {
		elapsed := now.Sub(f.last).Seconds()
		f.count *= math.Pow(1-freeLimiterDecayPerSecond, elapsed)
	}
	f.last = now

	if f.count+float64(size) > f.limit {
		return false
	}
	f.count += float64(size)
	return true
}
