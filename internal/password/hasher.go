// Package password derives and verifies salted account password hashes.
package password

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

// Defaults keep hashes compatible with previously stored accounts.
const (
	DefaultIterations = 1000
	DefaultKeyLen     = 64
	SaltBytes         = 16
)

// Hasher sets and verifies account passwords with PBKDF2-SHA1.
type Hasher struct {
	iterations int
	keyLen     int
}

// NewHasher creates a Hasher. Non-positive parameters fall back to defaults.
func NewHasher(iterations, keyLen int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if keyLen <= 0 {
		keyLen = DefaultKeyLen
	}
	return &Hasher{iterations: iterations, keyLen: keyLen}
}

// Derive generates a fresh salt and hashes plaintext with it.
func (h *Hasher) Derive(plaintext string) (model.Credential, error) {
	saltBytes := make([]byte, SaltBytes)
	if _, err := rand.Read(saltBytes); err != nil {
		return model.Credential{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(saltBytes)

	return model.Credential{Hash: h.hash(plaintext, salt), Salt: salt}, nil
}

// SetPassword returns a copy of account carrying a new salt and hash for plaintext.
func (h *Hasher) SetPassword(account model.Account, plaintext string) (model.Account, error) {
	cred, err := h.Derive(plaintext)
	if err != nil {
		return model.Account{}, err
	}
	account.Hash = cred.Hash
	account.Salt = cred.Salt
	return account, nil
}

// VerifyPassword reports whether plaintext matches the account's stored hash.
func (h *Hasher) VerifyPassword(account model.Account, plaintext string) bool {
	if !account.HasPassword() {
		return false
	}
	computed := h.hash(plaintext, account.Salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(account.Hash)) == 1
}

// The hex salt string itself is the PBKDF2 salt input.
func (h *Hasher) hash(plaintext, salt string) string {
	key := pbkdf2.Key([]byte(plaintext), []byte(salt), h.iterations, h.keyLen, sha1.New)
	return hex.EncodeToString(key)
}
