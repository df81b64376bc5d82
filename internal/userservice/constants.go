package userservice

const (
	// Error messages for user service operations
	ErrFailedToHashPassword = "failed to hash password" // #nosec G101
	ErrFailedToRegisterUser = "failed to register user"
	ErrFailedToIssueSession = "failed to issue session"
	ErrRetrievingUser       = "error retrieving user"
	ErrListingUsers         = "error listing users"
	ErrDeletingUser         = "error deleting user"
	ErrValidationFailed     = "validation failed"
	ErrAuthenticationFailed = "authentication failed"
	ErrDuplicateUsername    = "username taken at insert"

	// log messages
	MsgRegisteringUser     = "Registering user"
	MsgUserRegistered      = "User registered successfully"
	MsgUserLoggedIn        = "User logged in"
	MsgUserLoggedOut       = "User logged out"
	MsgUserDeleted         = "User deleted"
	MsgSessionUserVanished = "session refers to a missing user"
)
