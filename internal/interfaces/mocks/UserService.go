package mocks

import (
	"context"

	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/internal/models/dto"
	"github.com/stretchr/testify/mock"
)

// MockUserService is a mock type for the UserService type
type MockUserService struct {
	mock.Mock
}

func (_m *MockUserService) RegisterUser(ctx context.Context, req dto.UserSignupRequestDTO) (models.AuthenticatedUser, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(models.AuthenticatedUser), ret.Error(1)
}

func (_m *MockUserService) Login(ctx context.Context, req dto.LoginRequestDTO) (models.AuthenticatedUser, models.Session, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(models.AuthenticatedUser), ret.Get(1).(models.Session), ret.Error(2)
}

func (_m *MockUserService) Logout(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

func (_m *MockUserService) CurrentUser(ctx context.Context, token string) (models.UserResponse, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(models.UserResponse), ret.Error(1)
}

func (_m *MockUserService) GetUser(ctx context.Context, id int64) (models.UserResponse, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(models.UserResponse), ret.Error(1)
}

func (_m *MockUserService) ListUsers(ctx context.Context) ([]models.UserResponse, error) {
	ret := _m.Called(ctx)

	var r0 []models.UserResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.UserResponse)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserService) DeleteUser(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockUserService) DeleteUserByUsername(ctx context.Context, username string) error {
	ret := _m.Called(ctx, username)
	return ret.Error(0)
}

// NewMockUserService creates a new instance of MockUserService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockUserService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserService {
	m := &MockUserService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
