package service

import (
	"time"

	"microwave"
)

// Fixed step applied by every mutation: 10 power units, 10 seconds of countdown.
const (
	powerStep   = 10
	counterStep = 10
)

// remainingAt computes how many seconds of the stored countdown are left at
// the given instant: the committed base value minus whole elapsed seconds,
// floored at zero. Pure arithmetic; no background process ever ticks the
// countdown down, so two reads of the same pair at different times
// legitimately return different values.
func remainingAt(pair microwave.CounterPair, now time.Time) int {
	elapsed := int(now.Sub(pair.CommittedAt).Seconds())
	if r := pair.Value - elapsed; r > 0 {
		return r
	}
	return 0
}

// encodeCounter re-bases the countdown: the new remaining value paired with
// the instant it was committed.
func encodeCounter(remaining int, now time.Time) microwave.CounterPair {
	return microwave.CounterPair{Value: remaining, CommittedAt: now}
}
