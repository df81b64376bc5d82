package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haguru/bloguser/internal/authenticator"
	"github.com/haguru/bloguser/internal/forms"
	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/interfaces/mocks"
	"github.com/haguru/bloguser/internal/models"
	"github.com/haguru/bloguser/internal/models/dto"
	"github.com/haguru/bloguser/internal/userservice"
)

type harness struct {
	service    *mocks.MockUserService
	configPath string
	closed     int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	stdinFd = func() int { return -1 }
	t.Cleanup(func() { stdinFd = defaultStdinFd })
	return &harness{service: mocks.NewMockUserService(t)}
}

func (h *harness) factory(_ context.Context, configPath string) (interfaces.UserService, func() error, error) {
	h.configPath = configPath
	return h.service, func() error {
		h.closed++
		return nil
	}, nil
}

func (h *harness) run(stdin string, args ...string) (string, string, error) {
	cmd := NewRootCommand(h.factory)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func signupMatcher(username, password, confirm string) interface{} {
	return mock.MatchedBy(func(req dto.UserSignupRequestDTO) bool {
		return req.Username != nil && *req.Username == username &&
			req.Password != nil && *req.Password == password &&
			req.PasswordConfirm != nil && *req.PasswordConfirm == confirm
	})
}

func TestCreateUser_PasswordFlag(t *testing.T) {
	h := newHarness(t)
	h.service.On("RegisterUser", mock.Anything, signupMatcher("alice", "s3cretpw", "s3cretpw")).
		Return(models.AuthenticatedUser{ID: 3, Username: "alice"}, nil).Once()

	out, _, err := h.run("", "create-user", "alice", "--password", "s3cretpw", "--config", "/etc/bloguser.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Created user alice (id 3)\n", out)
	assert.Equal(t, "/etc/bloguser.yaml", h.configPath)
	assert.Equal(t, 1, h.closed)
}

func TestCreateUser_Prompted(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		confirm string
		err     error
	}{
		{name: "matching", stdin: "s3cretpw\ns3cretpw\n", confirm: "s3cretpw"},
		{name: "no trailing newline", stdin: "s3cretpw\ns3cretpw", confirm: "s3cretpw"},
		{name: "mismatch rejected by validator", stdin: "s3cretpw\nother123\n", confirm: "other123", err: forms.ErrMismatchPasswords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.service.On("RegisterUser", mock.Anything, signupMatcher("alice", "s3cretpw", tt.confirm)).
				Return(models.AuthenticatedUser{ID: 3, Username: "alice"}, tt.err).Once()

			out, stderr, err := h.run(tt.stdin, "create-user", "alice")
			assert.Contains(t, stderr, PromptPassword)
			assert.Contains(t, stderr, PromptPasswordAgain)
			assert.NotContains(t, stderr, "s3cretpw")

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.ErrorContains(t, err, ErrCreatingUser)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "alice")
		})
	}
}

func TestCreateUser_NoInput(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "create-user", "alice")
	assert.ErrorContains(t, err, ErrReadingPassword)
	assert.Zero(t, h.closed)
}

func TestCreateUser_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "username taken", err: authenticator.ErrUserAlreadyExists},
		{name: "short password", err: forms.FieldTooShort("password", 8)},
		{name: "store failure", err: userservice.ErrSignupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.service.On("RegisterUser", mock.Anything, mock.Anything).
				Return(models.AuthenticatedUser{}, tt.err).Once()

			_, _, err := h.run("", "create-user", "alice", "--password", "pw")
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, h.closed)
		})
	}
}

func TestCreateUser_RequiresUsername(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "create-user")
	assert.Error(t, err)
}

func TestListUsers(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	users := []models.UserResponse{
		{ID: 1, Username: "alice", CreatedAt: created},
		{ID: 2, Username: "bob", CreatedAt: created.Add(time.Hour)},
	}

	t.Run("table", func(t *testing.T) {
		h := newHarness(t)
		h.service.On("ListUsers", mock.Anything).Return(users, nil).Once()

		out, _, err := h.run("", "list-users")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"ID", "USERNAME", "CREATED"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"1", "alice", "2024-06-01T08:00:00Z"}, strings.Fields(lines[1]))
		assert.Equal(t, []string{"2", "bob", "2024-06-01T09:00:00Z"}, strings.Fields(lines[2]))
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t)
		h.service.On("ListUsers", mock.Anything).Return(users, nil).Once()

		out, _, err := h.run("", "list-users", "--json")
		require.NoError(t, err)

		var got []models.UserResponse
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Len(t, got, 2)
		assert.NotContains(t, out, "password")
	})

	t.Run("empty", func(t *testing.T) {
		h := newHarness(t)
		h.service.On("ListUsers", mock.Anything).Return([]models.UserResponse{}, nil).Once()

		out, _, err := h.run("", "list-users")
		require.NoError(t, err)
		assert.Equal(t, MsgNoUsers+"\n", out)
	})

	t.Run("store failure", func(t *testing.T) {
		h := newHarness(t)
		h.service.On("ListUsers", mock.Anything).Return(nil, userservice.ErrStoreUnavailable).Once()

		_, _, err := h.run("", "list-users")
		assert.ErrorIs(t, err, userservice.ErrStoreUnavailable)
	})
}

func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		setup   func(*mocks.MockUserService)
		wantOut string
		wantErr error
	}{
		{
			name: "by id",
			args: []string{"delete-user", "--id", "7"},
			setup: func(s *mocks.MockUserService) {
				s.On("DeleteUser", mock.Anything, int64(7)).Return(nil).Once()
			},
			wantOut: "Deleted user id 7\n",
		},
		{
			name: "by username",
			args: []string{"delete-user", "--username", "alice"},
			setup: func(s *mocks.MockUserService) {
				s.On("DeleteUserByUsername", mock.Anything, "alice").Return(nil).Once()
			},
			wantOut: "Deleted user alice\n",
		},
		{
			name: "unknown user",
			args: []string{"delete-user", "--username", "ghost"},
			setup: func(s *mocks.MockUserService) {
				s.On("DeleteUserByUsername", mock.Anything, "ghost").Return(userservice.ErrUserNotFound).Once()
			},
			wantErr: userservice.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h.service)

			out, _, err := h.run("", tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestDeleteUser_FlagRules(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "neither flag", args: []string{"delete-user"}},
		{name: "both flags", args: []string{"delete-user", "--id", "1", "--username", "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, _, err := h.run("", tt.args...)
			assert.Error(t, err)
			assert.Zero(t, h.closed)
		})
	}
}

func TestWithService_FactoryError(t *testing.T) {
	cmd := NewRootCommand(func(context.Context, string) (interfaces.UserService, func() error, error) {
		return nil, nil, errors.New("dial tcp: connection refused")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list-users"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, ErrOpeningService)
}
