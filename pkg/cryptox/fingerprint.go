package cryptox

import (
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// NormalizeEmail lowercases and trims an email address. The identity provider
// matches emails case-insensitively so every key derived from an email must
// go through here first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Fingerprint returns a deterministic BLAKE2b-256 fingerprint of the
// normalised email, base64url encoded (43 chars). It is used wherever an email
// needs to act as a key (dispatch guards, provisioning journal) without
// storing the address itself.
func Fingerprint(email string) string {
	sum := blake2b.Sum256([]byte(NormalizeEmail(email)))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
