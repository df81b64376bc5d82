package mocks

import (
	"context"

	"github.com/haguru/bloguser/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSessionIssuer is a mock type for the SessionIssuer type
type MockSessionIssuer struct {
	mock.Mock
}

func (_m *MockSessionIssuer) Issue(ctx context.Context, userID int64) (models.Session, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(models.Session), ret.Error(1)
}

func (_m *MockSessionIssuer) Resolve(ctx context.Context, token string) (models.Session, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(models.Session), ret.Error(1)
}

func (_m *MockSessionIssuer) End(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

func (_m *MockSessionIssuer) PurgeExpired(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewMockSessionIssuer creates a new instance of MockSessionIssuer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSessionIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionIssuer {
	m := &MockSessionIssuer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
