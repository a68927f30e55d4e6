package crypto

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	SeedSize      = ed25519.SeedSize
	PublicKeySize = ed25519.PublicKeySize
	SecretKeySize = ed25519.PrivateKeySize
)

var ErrInvalidSeedSize = errors.New("invalid key pair seed size")

type KeyPair struct {
	PublicKey ed25519.PublicKey
	SecretKey ed25519.PrivateKey
}

// Blake2b returns the unkeyed BLAKE2b-256 digest of b.
func Blake2b(b []byte) []byte {
	sum := blake2b.Sum256(b)
	return sum[:]
}

// NewKeyPair derives an Ed25519 key pair from exactly SeedSize bytes.
func NewKeyPair(seed []byte) (KeyPair, error) {
	if len(seed) != SeedSize {
		return KeyPair{}, fmt.Errorf("%w: %d", ErrInvalidSeedSize, len(seed))
	}
	secretKey := ed25519.NewKeyFromSeed(seed)
	publicKey := secretKey.Public().(ed25519.PublicKey)
	return KeyPair{
		PublicKey: append(ed25519.PublicKey(nil), publicKey...),
		SecretKey: secretKey,
	}, nil
}

// Primitives is the default hashing and key generation backend.
type Primitives struct{}

func (Primitives) Blake2b(b []byte) []byte {
	return Blake2b(b)
}

func (Primitives) KeyPair(seed []byte) (KeyPair, error) {
	return NewKeyPair(seed)
}
