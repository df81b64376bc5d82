// Package hasher wraps bcrypt behind interfaces.PasswordHasher.
//
// Hashing is CPU bound. Every call runs on its own goroutine and holds a slot
// of a weighted semaphore while it works, so a burst of logins cannot take
// every core away from request handling, and a caller whose context ends
// stops waiting immediately.
package hasher

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MinCost is the lowest work factor the hasher accepts.
const MinCost = bcrypt.DefaultCost

const (
	ErrCostTooLow         = "bcrypt cost below minimum"
	ErrCostTooHigh        = "bcrypt cost above maximum"
	ErrFailedToHash       = "failed to hash password" // #nosec G101
	ErrFailedToVerify     = "failed to verify password"
	ErrWaitingForHashSlot = "waiting for hash slot"
	ErrInvalidConcurrency = "max concurrent hashes must be positive"
)

// BcryptHasher implements interfaces.PasswordHasher.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewBcryptHasher returns a hasher with the given cost. maxConcurrent bounds
// how many hash operations may run at once; zero means GOMAXPROCS.
func NewBcryptHasher(cost, maxConcurrent int) (*BcryptHasher, error) {
	if cost < MinCost {
		return nil, fmt.Errorf("%s: %d < %d", ErrCostTooLow, cost, MinCost)
	}
	if cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%s: %d > %d", ErrCostTooHigh, cost, bcrypt.MaxCost)
	}
	if maxConcurrent < 0 {
		return nil, errors.New(ErrInvalidConcurrency)
	}
	if maxConcurrent == 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}

	return &BcryptHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns the salted bcrypt hash of plaintext.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	hashed, err := run(ctx, h.sem, func() ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrFailedToHash, err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// a malformed hash or cancelled context is an error.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	_, err := run(ctx, h.sem, func() ([]byte, error) {
		return nil, bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", ErrFailedToVerify, err)
	}
}

type result struct {
	out []byte
	err error
}

// run executes fn on a separate goroutine once a semaphore slot is free. The
// slot is released by that goroutine, so an abandoned call still finishes its
// work before the slot can be reused.
func run(ctx context.Context, sem *semaphore.Weighted, fn func() ([]byte, error)) ([]byte, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrWaitingForHashSlot, err)
	}

	done := make(chan result, 1)
	go func() {
		defer sem.Release(1)
		out, err := fn()
		done <- result{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.out, r.err
	}
}
