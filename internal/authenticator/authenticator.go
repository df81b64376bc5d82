// Package authenticator checks credentials against the user store.
package authenticator

import (
	"context"
	"errors"

	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/pkg/helper"
)

// Authenticator implements interfaces.Authenticator.
type Authenticator struct {
	users  interfaces.UserRepository
	hasher interfaces.PasswordHasher
	logger interfaces.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users interfaces.UserRepository, hasher interfaces.PasswordHasher, logger interfaces.Logger) *Authenticator {
	return &Authenticator{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Authenticate looks the user up and verifies the password against the
// stored hash. Store failures are logged and reported as ErrUserNotFound.
func (a *Authenticator) Authenticate(ctx context.Context, cred models.Credential) (models.AuthenticatedUser, error) {
	funcName := helper.GetFuncName()
	a.logger.Debug("Entering function", "func", funcName, "user", cred.Username)
	defer a.logger.Debug("Exiting function", "func", funcName, "user", cred.Username)

	user, err := a.users.GetUserByUsername(ctx, cred.Username)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			a.logger.Warn(MsgUserNotFound, "func", funcName, "user", cred.Username)
		} else {
			a.logger.Error(ErrRetrievingUser, "func", funcName, "user", cred.Username, "error", err)
		}
		return models.AuthenticatedUser{}, ErrUserNotFound
	}

	ok, err := a.hasher.Verify(ctx, cred.Password, user.PasswordHash)
	if err != nil {
		a.logger.Error(ErrVerifyingPassword, "func", funcName, "user", cred.Username, "error", err)
		return models.AuthenticatedUser{}, ErrInvalidPassword
	}
	if !ok {
		a.logger.Warn(MsgInvalidPassword, "func", funcName, "user", cred.Username)
		return models.AuthenticatedUser{}, ErrInvalidPassword
	}

	a.logger.Info(MsgUserAuthenticated, "func", funcName, "user", cred.Username, "ID", user.ID)
	return user.Identity(), nil
}

// VerifyNewUsername succeeds when no record holds username. It is the signup
// counterpart of the login lookup: a hit is the failure. Store failures are
// logged and reported as ErrUserAlreadyExists so signup never proceeds blind.
func (a *Authenticator) VerifyNewUsername(ctx context.Context, username string) error {
	funcName := helper.GetFuncName()
	a.logger.Debug("Entering function", "func", funcName, "user", username)
	defer a.logger.Debug("Exiting function", "func", funcName, "user", username)

	_, err := a.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		a.logger.Warn(MsgUsernameTaken, "func", funcName, "user", username)
		return ErrUserAlreadyExists
	case errors.Is(err, models.ErrRecordNotFound):
		a.logger.Debug(MsgUsernameAvailable, "func", funcName, "user", username)
		return nil
	default:
		a.logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return ErrUserAlreadyExists
	}
}
