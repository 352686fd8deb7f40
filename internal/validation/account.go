// Package validation checks account field constraints before persistence.
package validation

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

var (
	alphaRegex = regexp.MustCompile(`^[A-Za-z]+$`)
	// Requires a dotted domain with an alphabetic TLD, rejecting "user@localhost".
	domainRegex = regexp.MustCompile(`^([A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?\.)+[A-Za-z]{2,}$`)
)

// Account validates the profile fields of an account.
// It returns nil when the account is valid.
func Account(account model.Account) *model.ValidationError {
	verr := &model.ValidationError{}

	checkName(verr, "firstname", account.Firstname, "Missing Firstname", "Invalid Firstname")
	checkName(verr, "lastname", account.Lastname, "Missing Lastname", "Invalid Lastname")

	switch email := strings.TrimSpace(account.Email); {
	case email == "":
		verr.Add("email", "Missing Email Address")
	case !IsEmail(email):
		verr.Add("email", "Invalid Email Address")
	}

	if !verr.HasErrors() {
		return nil
	}
	return verr
}

// Registration validates a new account together with its initial password.
func Registration(account model.Account, password string) *model.ValidationError {
	verr := Account(account)
	if password == "" {
		if verr == nil {
			verr = &model.ValidationError{}
		}
		verr.Add("password", "Missing Password")
	}
	return verr
}

// EmailTaken builds the uniqueness violation reported for a duplicate email.
func EmailTaken(email string) *model.ValidationError {
	verr := &model.ValidationError{}
	verr.Add("email", "email: "+model.NormalizeEmail(email)+", already exists")
	return verr
}

// IsEmail reports whether s is a bare email address with a dotted domain.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && domainRegex.MatchString(s[at+1:])
}

func checkName(verr *model.ValidationError, key, value, missing, invalid string) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		verr.Add(key, missing)
	case !alphaRegex.MatchString(value):
		verr.Add(key, invalid)
	}
}
