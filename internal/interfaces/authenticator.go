package interfaces

import (
	"context"

	"github.com/haguru/bloguser/internal/models"
)

type Authenticator interface {
	// Authenticate checks a credential against the store.
	Authenticate(ctx context.Context, cred models.Credential) (models.AuthenticatedUser, error)
	// VerifyNewUsername succeeds only when the username is not taken yet.
	VerifyNewUsername(ctx context.Context, username string) error
}
