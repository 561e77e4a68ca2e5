// Package credentials classifies stored password values and enforces the
// hash-before-persist rule shared by the user write path and the
// maintenance upgrader.
package credentials

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Classification is the transient state of a stored credential value.
type Classification int

const (
	// Skip marks an empty or NULL credential. Not flagged as plaintext,
	// not rewritten.
	Skip Classification = iota
	// Hashed marks a value carrying a recognized hash-algorithm prefix.
	Hashed
	// Plaintext marks any other non-empty value.
	Plaintext
)

// Recognized secure-hash prefixes. "$2y$" is the bcrypt variant written by
// the previous system, "$2a$"/"$2b$" cover hashes produced here, and
// "$argon2" also covers the "$argon2id" variant.
var hashPrefixes = []string{"$2a$", "$2b$", "$2y$", "$argon2"}

// Classify inspects a stored credential value. This is a prefix heuristic,
// not a format validator: a malformed value that happens to carry a
// recognized prefix still classifies as Hashed and is never re-hashed.
func Classify(stored string) Classification {
	if stored == "" {
		return Skip
	}
	for _, p := range hashPrefixes {
		if strings.HasPrefix(stored, p) {
			return Hashed
		}
	}
	return Plaintext
}

// Hash produces a one-way bcrypt hash of a plaintext value.
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// EnsureHashed applies the classify-then-hash-or-passthrough rule: plaintext
// values are hashed, already-hashed and empty values are returned unchanged.
// Every code path that sets a credential field must go through this, so a
// caller can neither persist plaintext nor double-hash.
func EnsureHashed(stored string) (string, error) {
	if Classify(stored) != Plaintext {
		return stored, nil
	}
	return Hash(stored)
}
