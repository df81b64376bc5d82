// Package constants names the tables and collections shared by the stores.
package constants

const (
	UsersCollection    = "users"
	SessionsCollection = "sessions"
	CountersCollection = "counters"

	// UsersCounter is the counters document that hands out user ids.
	UsersCounter = "user_id"
)
