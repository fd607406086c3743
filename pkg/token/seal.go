package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"strings"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	argon2 "golang.org/x/crypto/argon2"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Argon2id parameters (OWASP recommended minimums)
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32

	saltLen = 16

	// MinPassphraseLen is the shortest passphrase accepted by a FileStore
	MinPassphraseLen = 8
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func validatePassphrase(passphrase string) error {
	if n := len(strings.TrimSpace(passphrase)); n == 0 {
		return lingo.ErrBadParameter.With("passphrase must not be empty")
	} else if n < MinPassphraseLen {
		return lingo.ErrBadParameter.Withf("passphrase must be at least %d characters", MinPassphraseLen)
	}
	return nil
}

// seal encrypts plaintext with a key derived from the passphrase and a fresh
// salt. The result is salt || nonce || ciphertext+tag.
func seal(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	out := append(salt, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// open reverses seal
func open(passphrase string, blob []byte) ([]byte, error) {
	if len(blob) < saltLen {
		return nil, fmt.Errorf("open: data too short")
	}
	gcm, err := newGCM(passphrase, blob[:saltLen])
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	blob = blob[saltLen:]
	if len(blob) < gcm.NonceSize() {
		return nil, fmt.Errorf("open: data too short")
	}
	plaintext, err := gcm.Open(nil, blob[:gcm.NonceSize()], blob[gcm.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return plaintext, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
