// Package session mints and tracks opaque session tokens.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"time"

	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/pkg/helper"
)

// Issuer implements interfaces.SessionIssuer.
//
// A session is Active from Issue until either End stamps it Ended or its
// ttl runs out. Expired sessions stay resolvable as ErrSessionExpired until
// PurgeExpired removes them.
type Issuer struct {
	sessions interfaces.SessionRepository
	logger   interfaces.Logger
	ttl      time.Duration

	now    func() time.Time
	random io.Reader
}

// NewIssuer creates an Issuer whose sessions live for ttl.
func NewIssuer(sessions interfaces.SessionRepository, ttl time.Duration, logger interfaces.Logger) (*Issuer, error) {
	if ttl <= 0 {
		return nil, errors.New(ErrInvalidTTL)
	}
	return &Issuer{
		sessions: sessions,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		random:   rand.Reader,
	}, nil
}

// TTL returns the session lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// stores keep millisecond precision at best
func (i *Issuer) clock() time.Time {
	return i.now().UTC().Truncate(time.Millisecond)
}

// Issue mints a token for userID and persists it.
func (i *Issuer) Issue(ctx context.Context, userID int64) (models.Session, error) {
	funcName := helper.GetFuncName()
	i.logger.Debug("Entering function", "func", funcName, "userID", userID)
	defer i.logger.Debug("Exiting function", "func", funcName, "userID", userID)

	token, err := newToken(i.random)
	if err != nil {
		i.logger.Error(ErrGeneratingToken, "func", funcName, "error", err)
		return models.Session{}, ErrSessionUnavailable
	}

	now := i.clock()
	s := models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(i.ttl),
	}
	if err := i.sessions.InsertSession(ctx, s); err != nil {
		i.logger.Error(ErrStoringSession, "func", funcName, "userID", userID, "error", err)
		return models.Session{}, ErrSessionUnavailable
	}

	i.logger.Info(MsgSessionIssued, "func", funcName, "userID", userID, "expiresAt", s.ExpiresAt)
	return s, nil
}

// Resolve returns the active session behind token.
func (i *Issuer) Resolve(ctx context.Context, token string) (models.Session, error) {
	funcName := helper.GetFuncName()
	i.logger.Debug("Entering function", "func", funcName)
	defer i.logger.Debug("Exiting function", "func", funcName)

	s, err := i.lookup(ctx, token)
	if err != nil {
		return models.Session{}, err
	}
	return *s, nil
}

// End moves an active session to Ended.
func (i *Issuer) End(ctx context.Context, token string) error {
	funcName := helper.GetFuncName()
	i.logger.Debug("Entering function", "func", funcName)
	defer i.logger.Debug("Exiting function", "func", funcName)

	s, err := i.lookup(ctx, token)
	if err != nil {
		return err
	}

	n, err := i.sessions.EndSession(ctx, token, i.clock())
	if err != nil {
		i.logger.Error(ErrEndingSession, "func", funcName, "error", err)
		return ErrSessionUnavailable
	}
	if n == 0 {
		// ended, expired or removed since the lookup
		if _, err := i.lookup(ctx, token); err != nil {
			return err
		}
		return ErrSessionEnded
	}

	i.logger.Info(MsgSessionEnded, "func", funcName, "userID", s.UserID)
	return nil
}

// PurgeExpired deletes every session whose expiry has passed.
func (i *Issuer) PurgeExpired(ctx context.Context) (int64, error) {
	funcName := helper.GetFuncName()
	i.logger.Debug("Entering function", "func", funcName)
	defer i.logger.Debug("Exiting function", "func", funcName)

	n, err := i.sessions.DeleteExpiredSessions(ctx, i.clock())
	if err != nil {
		i.logger.Error(ErrPurgingSessions, "func", funcName, "error", err)
		return 0, ErrSessionUnavailable
	}
	if n > 0 {
		i.logger.Info(MsgSessionsPurged, "func", funcName, "count", n)
	}
	return n, nil
}

func (i *Issuer) lookup(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	s, err := i.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		i.logger.Error(ErrRetrievingSession, "func", helper.GetFuncName(), "error", err)
		return nil, ErrSessionUnavailable
	}

	switch {
	case s.Ended():
		return nil, ErrSessionEnded
	case s.Expired(i.now()):
		return nil, ErrSessionExpired
	}
	return s, nil
}
