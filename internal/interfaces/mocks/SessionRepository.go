package mocks

import (
	"context"
	"time"

	"github.com/haguru/bloguser/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock type for the SessionRepository type
type MockSessionRepository struct {
	mock.Mock
}

func (_m *MockSessionRepository) InsertSession(ctx context.Context, session models.Session) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

func (_m *MockSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	ret := _m.Called(ctx, token)

	var r0 *models.Session
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Session)
	}
	return r0, ret.Error(1)
}

func (_m *MockSessionRepository) EndSession(ctx context.Context, token string, endedAt time.Time) (int64, error) {
	ret := _m.Called(ctx, token, endedAt)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockSessionRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	ret := _m.Called(ctx, before)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewMockSessionRepository creates a new instance of MockSessionRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSessionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
