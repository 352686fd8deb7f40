package password

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

func TestHasher_SetAndVerify(t *testing.T) {
	h := NewHasher(0, 0)

	account, err := h.SetPassword(model.Account{Email: "a@b.com"}, "pw1")
	require.NoError(t, err)

	assert.Len(t, account.Salt, SaltBytes*2)
	assert.Len(t, account.Hash, DefaultKeyLen*2)
	assert.True(t, h.VerifyPassword(account, "pw1"))
	assert.False(t, h.VerifyPassword(account, "pw2"))
	assert.False(t, h.VerifyPassword(account, ""))
}

func TestHasher_SetPasswordDoesNotMutateInput(t *testing.T) {
	h := NewHasher(0, 0)
	original := model.Account{Email: "a@b.com"}

	_, err := h.SetPassword(original, "pw1")
	require.NoError(t, err)

	assert.Empty(t, original.Hash)
	assert.Empty(t, original.Salt)
}

func TestHasher_OnlyLatestPasswordVerifies(t *testing.T) {
	h := NewHasher(0, 0)

	first, err := h.SetPassword(model.Account{}, "first")
	require.NoError(t, err)
	second, err := h.SetPassword(first, "second")
	require.NoError(t, err)

	assert.NotEqual(t, first.Salt, second.Salt)
	assert.False(t, h.VerifyPassword(second, "first"))
	assert.True(t, h.VerifyPassword(second, "second"))
}

func TestHasher_SamePasswordDifferentSalts(t *testing.T) {
	h := NewHasher(0, 0)

	a, err := h.SetPassword(model.Account{}, "same")
	require.NoError(t, err)
	b, err := h.SetPassword(model.Account{}, "same")
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestHasher_CompatibleWithStoredHashes(t *testing.T) {
	h := NewHasher(DefaultIterations, DefaultKeyLen)
	salt := "00112233445566778899aabbccddeeff"
	stored := hex.EncodeToString(pbkdf2.Key([]byte("password"), []byte(salt), 1000, 64, sha1.New))

	account := model.Account{Salt: salt, Hash: stored}
	assert.True(t, h.VerifyPassword(account, "password"))
}

func TestHasher_NoCredential(t *testing.T) {
	h := NewHasher(0, 0)
	assert.False(t, h.VerifyPassword(model.Account{}, ""))
}

func TestHasher_CustomParameters(t *testing.T) {
	h := NewHasher(10, 32)

	account, err := h.SetPassword(model.Account{}, "pw")
	require.NoError(t, err)
	assert.Len(t, account.Hash, 64)
	assert.True(t, h.VerifyPassword(account, "pw"))

	assert.False(t, NewHasher(11, 32).VerifyPassword(account, "pw"))
}
