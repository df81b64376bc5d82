package authenticator

const (
	// log messages
	ErrRetrievingUser    = "error retrieving user"
	ErrVerifyingPassword = "error verifying password"
	MsgUserNotFound      = "user not found"
	MsgInvalidPassword   = "invalid password"
	MsgUsernameTaken     = "username already taken"
	MsgUserAuthenticated = "User authenticated successfully"
	MsgUsernameAvailable = "Username available"
)
