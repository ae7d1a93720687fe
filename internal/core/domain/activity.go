package domain

import "time"

// ActivityKind names an account event worth auditing.
type ActivityKind string

const (
	ActivityRegistered           ActivityKind = "registered"
	ActivityLoggedIn             ActivityKind = "logged_in"
	ActivityPasswordResetRequest ActivityKind = "password_reset_requested"
	ActivityPasswordResetConfirm ActivityKind = "password_reset_confirmed"
	ActivityProfileUpdated       ActivityKind = "profile_updated"
)

// Activity is a single audit record for an account.
type Activity struct {
	UserID     uint
	Username   string
	Kind       ActivityKind
	OccurredAt time.Time
}
