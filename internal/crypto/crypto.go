package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	DefaultN          = 2048 // CPU/memory cost, power of two
	DefaultR          = 8    // Block size
	DefaultP          = 1    // Parallelism
	DefaultKeyLength  = 32   // Derived key size in bytes
	DefaultSaltLength = 32   // Salt size in bytes
	MinSaltLength     = 16
)

var ErrInvalidParams = errors.New("invalid scrypt parameters")

// KeyDeriver turns a password and salt into a fixed-length key.
// Implementations must be deterministic for identical inputs.
type KeyDeriver interface {
	DeriveKey(password, salt []byte, n, r, p, keyLen int) ([]byte, error)
}

// Scrypt is the KeyDeriver backed by golang.org/x/crypto/scrypt
type Scrypt struct{}

// DeriveKey derives keyLen bytes from password and salt
func (Scrypt) DeriveKey(password, salt []byte, n, r, p, keyLen int) ([]byte, error) {
	key, err := scrypt.Key(password, salt, n, r, p, keyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return key, nil
}

// Params holds the cost parameters used for new credentials
type Params struct {
	N          int
	R          int
	P          int
	KeyLength  int
	SaltLength int
}

// DefaultParams returns the parameters used when none are configured
func DefaultParams() Params {
	return Params{
		N:          DefaultN,
		R:          DefaultR,
		P:          DefaultP,
		KeyLength:  DefaultKeyLength,
		SaltLength: DefaultSaltLength,
	}
}

// Validate checks the parameters against scrypt's constraints
func (p Params) Validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("%w: N must be a power of two greater than 1, got %d", ErrInvalidParams, p.N)
	}
	if p.R < 1 {
		return fmt.Errorf("%w: r must be >= 1, got %d", ErrInvalidParams, p.R)
	}
	if p.P < 1 {
		return fmt.Errorf("%w: p must be >= 1, got %d", ErrInvalidParams, p.P)
	}
	if uint64(p.R)*uint64(p.P) >= 1<<30 {
		return fmt.Errorf("%w: r*p must be < 2^30", ErrInvalidParams)
	}
	if p.KeyLength < 1 {
		return fmt.Errorf("%w: key length must be >= 1, got %d", ErrInvalidParams, p.KeyLength)
	}
	if p.SaltLength < MinSaltLength {
		return fmt.Errorf("%w: salt length must be >= %d, got %d", ErrInvalidParams, MinSaltLength, p.SaltLength)
	}
	return nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
