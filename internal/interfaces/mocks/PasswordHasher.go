package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a mock type for the PasswordHasher type
type MockPasswordHasher struct {
	mock.Mock
}

func (_m *MockPasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	ret := _m.Called(ctx, plaintext)
	return ret.String(0), ret.Error(1)
}

func (_m *MockPasswordHasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	ret := _m.Called(ctx, plaintext, hash)
	return ret.Bool(0), ret.Error(1)
}

// NewMockPasswordHasher creates a new instance of MockPasswordHasher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
