package models

import "time"

// UserRecord is the persisted user row. It is owned by the user repository and
// is never handed to callers outside the service layer.
type UserRecord struct {
	ID           int64     `bson:"_id" db:"id"`
	Username     string    `bson:"username" db:"username"`
	PasswordHash string    `bson:"password_hash" db:"password_hash"`
	CreatedAt    time.Time `bson:"created_at" db:"created_at"`
}

// AuthenticatedUser is the identity produced by a successful authentication.
// It never carries the password or its hash.
type AuthenticatedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity strips the stored hash from a record.
func (u UserRecord) Identity() AuthenticatedUser {
	return AuthenticatedUser{
		ID:       u.ID,
		Username: u.Username,
	}
}

// Public returns the record without its password hash.
func (u UserRecord) Public() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
