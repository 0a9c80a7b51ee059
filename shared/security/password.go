package security

import (
	"errors"

	"github.com/matthewhartstonge/argon2"
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// HashParams tunes the argon2id cost. Zero fields fall back to the library defaults.
type HashParams struct {
	MemoryKiB   uint32
	TimeCost    uint32
	Parallelism uint8
}

// Hasher produces and verifies salted argon2id hashes in the PHC string format.
type Hasher struct {
	config argon2.Config
}

// NewHasher creates a Hasher using the given cost parameters.
func NewHasher(params HashParams) *Hasher {
	cfg := argon2.DefaultConfig()
	if params.MemoryKiB > 0 {
		cfg.MemoryCost = params.MemoryKiB
	}
	if params.TimeCost > 0 {
		cfg.TimeCost = params.TimeCost
	}
	if params.Parallelism > 0 {
		cfg.Parallelism = params.Parallelism
	}

	return &Hasher{config: cfg}
}

// Hash returns the encoded hash of password. A fresh random salt is drawn on every call.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// Verify reports whether password matches the encoded hash.
// The comparison of derived keys is constant time.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encoded))
}
