// Package userservice runs the signup, login and account flows on top of the
// validator, authenticator, hasher and session issuer.
package userservice

import (
	"context"
	"errors"

	"github.com/haguru/bloguser/internal/authenticator"
	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/internal/models/dto"
	"github.com/haguru/bloguser/pkg/helper"
)

type UserService struct {
	Validator     interfaces.Validator
	Authenticator interfaces.Authenticator
	Hasher        interfaces.PasswordHasher
	UserRepo      interfaces.UserRepository
	Sessions      interfaces.SessionIssuer
	Logger        interfaces.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(validator interfaces.Validator, authn interfaces.Authenticator, hasher interfaces.PasswordHasher,
	repo interfaces.UserRepository, sessions interfaces.SessionIssuer, logger interfaces.Logger,
) *UserService {
	return &UserService{
		Validator:     validator,
		Authenticator: authn,
		Hasher:        hasher,
		UserRepo:      repo,
		Sessions:      sessions,
		Logger:        logger,
	}
}

// RegisterUser validates the signup form, checks the username is free,
// hashes the password and stores the new user.
func (s *UserService) RegisterUser(ctx context.Context, req dto.UserSignupRequestDTO) (models.AuthenticatedUser, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName)
	defer s.Logger.Debug("Exiting function", "func", funcName)

	signup, err := s.Validator.ValidateSignup(req)
	if err != nil {
		s.Logger.Debug(ErrValidationFailed, "func", funcName, "error", err)
		return models.AuthenticatedUser{}, err
	}

	s.Logger.Info(MsgRegisteringUser, "func", funcName, "user", signup.Username)

	if err := s.Authenticator.VerifyNewUsername(ctx, signup.Username); err != nil {
		return models.AuthenticatedUser{}, err
	}

	hash, err := s.Hasher.Hash(ctx, signup.Password)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", signup.Username, "error", err)
		return models.AuthenticatedUser{}, ErrSignupFailed
	}

	id, err := s.UserRepo.InsertUser(ctx, signup.Username, hash)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateRecord) {
			s.Logger.Warn(ErrDuplicateUsername, "func", funcName, "user", signup.Username)
			return models.AuthenticatedUser{}, authenticator.ErrUserAlreadyExists
		}
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", signup.Username, "error", err)
		return models.AuthenticatedUser{}, ErrSignupFailed
	}

	s.Logger.Info(MsgUserRegistered, "func", funcName, "user", signup.Username, "ID", id)
	return models.AuthenticatedUser{ID: id, Username: signup.Username}, nil
}

// Login validates the form, authenticates the credential and opens a session.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequestDTO) (models.AuthenticatedUser, models.Session, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName)
	defer s.Logger.Debug("Exiting function", "func", funcName)

	cred, err := s.Validator.ValidateLogin(req)
	if err != nil {
		s.Logger.Debug(ErrValidationFailed, "func", funcName, "error", err)
		return models.AuthenticatedUser{}, models.Session{}, err
	}

	user, err := s.Authenticator.Authenticate(ctx, cred)
	if err != nil {
		s.Logger.Debug(ErrAuthenticationFailed, "func", funcName, "user", cred.Username, "error", err)
		return models.AuthenticatedUser{}, models.Session{}, err
	}

	session, err := s.Sessions.Issue(ctx, user.ID)
	if err != nil {
		s.Logger.Error(ErrFailedToIssueSession, "func", funcName, "user", user.Username, "error", err)
		return models.AuthenticatedUser{}, models.Session{}, ErrLoginFailed
	}

	s.Logger.Info(MsgUserLoggedIn, "func", funcName, "user", user.Username, "ID", user.ID)
	return user, session, nil
}

// Logout ends the session behind token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName)
	defer s.Logger.Debug("Exiting function", "func", funcName)

	if err := s.Sessions.End(ctx, token); err != nil {
		return err
	}
	s.Logger.Info(MsgUserLoggedOut, "func", funcName)
	return nil
}

// CurrentUser returns the user that owns the active session behind token.
func (s *UserService) CurrentUser(ctx context.Context, token string) (models.UserResponse, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName)
	defer s.Logger.Debug("Exiting function", "func", funcName)

	session, err := s.Sessions.Resolve(ctx, token)
	if err != nil {
		return models.UserResponse{}, err
	}

	user, err := s.GetUser(ctx, session.UserID)
	if errors.Is(err, ErrUserNotFound) {
		s.Logger.Warn(MsgSessionUserVanished, "func", funcName, "ID", session.UserID)
	}
	return user, err
}

// GetUser returns the public view of the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id int64) (models.UserResponse, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "ID", id)
	defer s.Logger.Debug("Exiting function", "func", funcName, "ID", id)

	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.UserResponse{}, ErrUserNotFound
		}
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "ID", id, "error", err)
		return models.UserResponse{}, ErrStoreUnavailable
	}
	return user.Public(), nil
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserResponse, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName)
	defer s.Logger.Debug("Exiting function", "func", funcName)

	records, err := s.UserRepo.ListUsers(ctx)
	if err != nil {
		s.Logger.Error(ErrListingUsers, "func", funcName, "error", err)
		return nil, ErrStoreUnavailable
	}

	users := make([]models.UserResponse, 0, len(records))
	for _, r := range records {
		users = append(users, r.Public())
	}
	return users, nil
}

// DeleteUser removes the user with the given id. Their sessions go with them.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "ID", id)
	defer s.Logger.Debug("Exiting function", "func", funcName, "ID", id)

	n, err := s.UserRepo.DeleteUserByID(ctx, id)
	return s.deleted(funcName, n, err, "ID", id)
}

// DeleteUserByUsername removes the user with the given username.
func (s *UserService) DeleteUserByUsername(ctx context.Context, username string) error {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	n, err := s.UserRepo.DeleteUserByUsername(ctx, username)
	return s.deleted(funcName, n, err, "user", username)
}

func (s *UserService) deleted(funcName string, n int64, err error, key string, value any) error {
	if err != nil {
		s.Logger.Error(ErrDeletingUser, "func", funcName, key, value, "error", err)
		return ErrStoreUnavailable
	}
	if n == 0 {
		return ErrUserNotFound
	}
	s.Logger.Info(MsgUserDeleted, "func", funcName, key, value)
	return nil
}
