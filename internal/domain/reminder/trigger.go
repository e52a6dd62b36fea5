package reminder

import "time"

// NextDelay returns how long to wait from now until the next hour:minute on the
// clock of now's location.
//
// Today's hour:minute is used when it is strictly after now; otherwise the same
// time on the following calendar day. A target equal to now counts as past so a
// job that has just fired does not fire again immediately.
//
// Callers re-derive the delay from the current instant on every re-arm instead of
// adding 24h to the previous target. Late wake-ups therefore do not accumulate
// drift, at the cost of strict periodicity.
//
// The result is normally in (0, 24h]. "Following day" is a calendar day in now's
// location, so across a DST transition the delay can be 23h or 25h.
func NextDelay(hour, minute int, now time.Time) time.Duration {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if candidate.After(now) {
		return candidate.Sub(now)
	}
	return candidate.AddDate(0, 0, 1).Sub(now)
}

// NextFireAt is NextDelay expressed as an instant.
func NextFireAt(hour, minute int, now time.Time) time.Time {
	return now.Add(NextDelay(hour, minute, now))
}
