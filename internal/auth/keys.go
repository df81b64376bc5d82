package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadECDSAPrivateKey reads a PEM encoded EC private key.
func LoadECDSAPrivateKey(keyPath string) (*ecdsa.PrivateKey, error) {
	if _, err := os.Stat(keyPath); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrKeyPathMissing, err)
	}

	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrReadingKeyFile, err)
	}

	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, errors.New(ErrDecodingPEM)
	}

	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParsingPrivateKey, err)
	}

	return privateKey, nil
}

// LoadOrCreateECDSAPrivateKey loads the key at keyPath, generating and saving
// a new P-256 key when the file does not exist yet.
func LoadOrCreateECDSAPrivateKey(keyPath string) (*ecdsa.PrivateKey, bool, error) {
	key, err := LoadECDSAPrivateKey(keyPath)
	if err == nil {
		return key, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ErrGeneratingKey, err)
	}
	if err := WriteECDSAPrivateKey(keyPath, key); err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// WriteECDSAPrivateKey stores the key as PEM, readable by the owner only.
func WriteECDSAPrivateKey(keyPath string, key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMarshalingKey, err)
	}

	if dir := filepath.Dir(keyPath); dir != "." {
		if err := os.MkdirAll(dir, privateKeyDirMode); err != nil {
			return fmt.Errorf("%s: %w", ErrWritingKeyFile, err)
		}
	}

	data := pem.EncodeToMemory(&pem.Block{Type: PEMTypeECPrivateKey, Bytes: der})
	if err := os.WriteFile(keyPath, data, privateKeyFileMode); err != nil {
		return fmt.Errorf("%s: %w", ErrWritingKeyFile, err)
	}
	return nil
}
