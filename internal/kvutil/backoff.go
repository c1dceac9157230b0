package kvutil

import (
	"math/rand/v2"
	"time"
)

// backoffMultiplier bounds the growth of the jittered delay per try.
const backoffMultiplier = 2.0

// jitterBackoff returns the delay before the next try using decorrelated
// jitter with a cap:
//
//	next = min(cap, base + rand[0, prev*mult-base))
//
// A non-positive prev starts from base. A cap below base returns the cap.
// A nil rng uses the package-level source.
func jitterBackoff(prev, base time.Duration, mult float64, capDur time.Duration, rng *rand.Rand) time.Duration {
	if base <= 0 {
		base = defaultBackoff
	}
	if mult < 1.0 {
		mult = 1.0
	}
	if capDur > 0 && capDur < base {
		return capDur
	}
	if prev <= 0 {
		return base
	}

	span := time.Duration(float64(prev)*mult) - base
	if span <= 0 {
		span = base
	}

	var jitter int64
	if rng != nil {
		jitter = rng.Int64N(int64(span))
	} else {
		jitter = rand.Int64N(int64(span)) //nolint:gosec // non-crypto retry jitter
	}

	next := base + time.Duration(jitter)
	if capDur > 0 && next > capDur {
		return capDur
	}

	return next
}
