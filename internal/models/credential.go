package models

// Credential is a validated username/password pair used for login.
type Credential struct {
	Username string
	Password string
}

// Signup is validated signup input. The password confirmation has already been
// checked and dropped, so it can never reach the store.
type Signup struct {
	Username string
	Password string
}
