// Package auth builds the signed bearer tokens required by the GLM API.
package auth

import (
	"errors"
	"strings"
)

const credentialSeparator = "."

var (
	// ErrInvalidCredentialFormat is returned when a credential does not split
	// into exactly two non-empty parts.
	ErrInvalidCredentialFormat = errors.New("invalid credential format, want <id>.<secret>")
	// ErrTokenSigning wraps failures reported by the signing library.
	ErrTokenSigning = errors.New("sign token")
)

// Credential is a compound API key: a public identifier and a signing secret.
type Credential struct {
	ID     string
	Secret string
}

// ParseCredential splits raw into its identifier and secret.
func ParseCredential(raw string) (Credential, error) {
	parts := strings.Split(raw, credentialSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Credential{}, ErrInvalidCredentialFormat
	}
	return Credential{ID: parts[0], Secret: parts[1]}, nil
}

// String returns the credential with the secret redacted.
func (c Credential) String() string {
	return c.ID + credentialSeparator + "***"
}
