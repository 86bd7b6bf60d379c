package queue

import "time"

// backoffSchedule is the fixed retry delay keyed by the attempt number a
// failure advances the job to (nextAttempts in SPEC_FULL.md §4.2): the
// first failure backs off 10s, the second 60s, the third and any further
// failure 300s.
var backoffSchedule = [...]time.Duration{
	1: 10 * time.Second,
	2: 60 * time.Second,
}

const backoffFloor = 300 * time.Second

// backoffFor returns the retry delay for the given nextAttempts count
// (1-indexed: the count after the failure currently being recorded).
func backoffFor(nextAttempts uint32) time.Duration {
	if int(nextAttempts) < len(backoffSchedule) {
		return backoffSchedule[nextAttempts]
	}
	return backoffFloor
}
