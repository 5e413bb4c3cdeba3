package activity

import "time"

// Urgency calculators. All of them are pure functions of two timestamps
// so tests can pin the clock.

// EventUrgency classifies an event by how soon it starts: urgent within
// 24 hours, soon within 72. Events already started fall through to
// normal rather than matching either window.
func EventUrgency(now, startTime time.Time) Urgency {
	until := startTime.Sub(now)
	if until >= 0 && until <= 24*time.Hour {
		return UrgencyUrgent
	}
	if until >= 0 && until <= 72*time.Hour {
		return UrgencySoon
	}
	return UrgencyNormal
}

// ResourceUrgency classifies a resource response by how long it has sat
// unanswered. Only pending responses age; anything else is normal.
func ResourceUrgency(now, respondedAt time.Time, pending bool) Urgency {
	if !pending {
		return UrgencyNormal
	}
	age := now.Sub(respondedAt)
	if age >= 7*24*time.Hour {
		return UrgencyUrgent
	}
	if age >= 3*24*time.Hour {
		return UrgencySoon
	}
	return UrgencyNormal
}

// ShoutoutUrgency classifies an outstanding thank-you by time since the
// exchange completed
func ShoutoutUrgency(now, completedAt time.Time) Urgency {
	age := now.Sub(completedAt)
	if age >= 3*24*time.Hour {
		return UrgencyUrgent
	}
	if age >= 24*time.Hour {
		return UrgencySoon
	}
	return UrgencyNormal
}

// MessageUrgency classifies an unread message by time since receipt
func MessageUrgency(now, receivedAt time.Time) Urgency {
	age := now.Sub(receivedAt)
	if age >= 48*time.Hour {
		return UrgencyUrgent
	}
	if age >= 12*time.Hour {
		return UrgencySoon
	}
	return UrgencyNormal
}
