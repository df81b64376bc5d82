package auth

const (
	ISSUER  = "github.com/haguru/bloguser"
	SUBJECT = "SESSION"

	ErrSigningCookie       = "failed to sign session cookie"
	ErrParsingCookie       = "session cookie parsing error"
	ErrInvalidCookie       = "invalid session cookie or claims"
	ErrMissingSessionID    = "session cookie carries no session id"
	ErrNilPrivateKey       = "private key cannot be nil"
	ErrKeyPathMissing      = "private key path does not exist"
	ErrReadingKeyFile      = "failed to read key file"
	ErrDecodingPEM         = "failed to decode PEM block"
	ErrParsingPrivateKey   = "failed to parse ECDSA private key"
	ErrGeneratingKey       = "failed to generate ECDSA private key"
	ErrWritingKeyFile      = "failed to write key file"
	ErrMarshalingKey       = "failed to marshal ECDSA private key"
	PEMTypeECPrivateKey    = "EC PRIVATE KEY"
	privateKeyFileMode     = 0o600
	privateKeyDirMode      = 0o700
	signingMethodAlgorithm = "ES256"
)
