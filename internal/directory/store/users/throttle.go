package users

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Throttle meters the request units a store may spend per second. Items that
// would overdraw the budget are refused with 429 instead of being written.
// A nil *Throttle admits everything.
type Throttle struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewThrottle returns a throttle refilling unitsPerSecond request units every
// second, with one second of burst. A non-positive rate disables throttling.
func NewThrottle(unitsPerSecond float64) *Throttle {
	if unitsPerSecond <= 0 {
		return nil
	}
	burst := max(int(math.Ceil(unitsPerSecond)), 1)
	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(unitsPerSecond), burst),
		now:     time.Now,
	}
}

// Allow spends charge request units if the budget covers them.
func (t *Throttle) Allow(charge float64) bool {
	if t == nil {
		return true
	}
	return t.limiter.AllowN(t.now(), int(math.Ceil(charge)))
}

// RequestCharge prices a write at one unit per started KiB of document, with a
// minimum of one unit.
func RequestCharge(document []byte) float64 {
	return max(math.Ceil(float64(len(document))/1024), 1)
}
