// Package password provides one-way credential hashing for stored passwords.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used for new hashes. High enough to
// make offline brute force expensive, low enough for interactive login.
const DefaultCost = 12

// Hasher hashes and verifies passwords. A mismatch is a boolean false, not
// an error; callers decide how to react.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher implements Hasher with bcrypt. The salt and cost parameters
// are encoded into the produced hash, so Compare needs no extra state.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside the
// bcrypt range fall back to DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether password matches hash. bcrypt's comparison is
// constant-time over the derived key.
func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
