package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadECDSAPrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		keyPath string
		wantErr string
	}{
		{name: "load valid key", keyPath: validKeyFile},
		{name: "load invalid key", keyPath: invalidKeyFile, wantErr: ErrParsingPrivateKey},
		{name: "file does not exist", keyPath: "non_existent_key.pem", wantErr: ErrKeyPathMissing},
		{name: "empty key path", keyPath: "", wantErr: ErrKeyPathMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadECDSAPrivateKey(tt.keyPath)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			checkECDSAPrivateKey(t, got)
			assert.True(t, got.Equal(testJwtPrivateKey))
		})
	}
}

func TestLoadECDSAPrivateKey_NotPEM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("not pem at all"), 0o600))

	_, err := LoadECDSAPrivateKey(path)
	assert.EqualError(t, err, ErrDecodingPEM)
}

func TestLoadOrCreateECDSAPrivateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "bloguser_key.pem")

	created, fresh, err := LoadOrCreateECDSAPrivateKey(path)
	require.NoError(t, err)
	assert.True(t, fresh)
	checkECDSAPrivateKey(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, fresh, err := LoadOrCreateECDSAPrivateKey(path)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.True(t, loaded.Equal(created))
}

func TestLoadOrCreateECDSAPrivateKey_Corrupt(t *testing.T) {
	_, _, err := LoadOrCreateECDSAPrivateKey(invalidKeyFile)
	assert.ErrorContains(t, err, ErrParsingPrivateKey)
}

func checkECDSAPrivateKey(t *testing.T, key *ecdsa.PrivateKey) {
	t.Helper()
	require.NotNil(t, key)
	assert.Equal(t, elliptic.P256(), key.Curve)

	digest := sha256.Sum256([]byte("test message"))
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	require.NoError(t, err)
	assert.True(t, ecdsa.VerifyASN1(&key.PublicKey, digest[:], sig))
}
