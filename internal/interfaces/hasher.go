package interfaces

import "context"

// PasswordHasher is a one-way salted hash. Implementations must not run the
// hashing work on the caller's goroutine in a way that ignores ctx.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}
