package session

import (
	"encoding/base64"
	"fmt"
	"io"
)

// TokenBytes is the amount of randomness in a session token.
const TokenBytes = 32

// TokenLength is the encoded length of a session token.
var TokenLength = base64.RawURLEncoding.EncodedLen(TokenBytes)

func newToken(r io.Reader) (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%s: %w", ErrGeneratingToken, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
