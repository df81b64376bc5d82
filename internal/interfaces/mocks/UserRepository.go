package mocks

import (
	"context"

	"github.com/haguru/bloguser/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock type for the UserRepository type
type MockUserRepository struct {
	mock.Mock
}

func (_m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	ret := _m.Called(ctx, username)

	var r0 *models.UserRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.UserRecord)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*models.UserRecord, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.UserRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.UserRecord)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserRepository) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	ret := _m.Called(ctx, username, passwordHash)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockUserRepository) DeleteUserByID(ctx context.Context, id int64) (int64, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockUserRepository) DeleteUserByUsername(ctx context.Context, username string) (int64, error) {
	ret := _m.Called(ctx, username)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockUserRepository) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	ret := _m.Called(ctx)

	var r0 []models.UserRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.UserRecord)
	}
	return r0, ret.Error(1)
}

// NewMockUserRepository creates a new instance of MockUserRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
