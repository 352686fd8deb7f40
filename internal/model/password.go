package model

// PasswordHasher derives and checks account credentials.
type PasswordHasher interface {
	SetPassword(account Account, plaintext string) (Account, error)
	VerifyPassword(account Account, plaintext string) bool
}
