package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used by the server. Changing it
// requires a redeploy; existing hashes keep verifying with their own cost.
const PasswordCost = 12

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
	// an error means the stored hash itself is unusable.
	Verify(plaintext, hash string) (bool, error)
}

// BcryptHasher is a PasswordHasher backed by bcrypt. bcrypt salts every
// hash and compares digests in constant time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Production code
// passes PasswordCost; tests use bcrypt.MinCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: malformed password hash: %v", common.ErrorInternal, err)
	}
}
