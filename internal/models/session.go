package models

import "time"

// Session ties an opaque token to a user.
type Session struct {
	Token     string     `json:"-" bson:"_id"`
	UserID    int64      `json:"user_id" bson:"user_id"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" bson:"expires_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
}

// Ended reports whether the session was explicitly terminated.
func (s Session) Ended() bool {
	return s.EndedAt != nil
}

// Expired reports whether the session outlived its TTL at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Active reports whether the session can still identify its user.
func (s Session) Active(now time.Time) bool {
	return !s.Ended() && !s.Expired(now)
}
