package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"maps"
)

// Input is one of PublicKeyHex, PublicKeyBytes, KeypairBytes or
// PartialFields.
type Input interface {
	fields() (Fields, error)
}

// PublicKeyHex is a public key as exactly 64 hex characters.
type PublicKeyHex string

// PublicKeyBytes is a raw 32-byte public key.
type PublicKeyBytes []byte

// KeypairBytes is a raw 64-byte secret key whose trailing 32 bytes are the
// public key.
type KeypairBytes []byte

// PartialFields is a set of named fields merged into the identity as given.
type PartialFields Fields

// Classify resolves a dynamically typed value to its Input variant.
func Classify(v any) (Input, error) {
	switch v := v.(type) {
	case Input:
		return v, nil
	case string:
		if !isHexKey(v, ed25519.PublicKeySize) {
			return nil, fmt.Errorf("%w: string is not a %d-character hex public key", ErrInvalidInput, 2*ed25519.PublicKeySize)
		}
		return PublicKeyHex(v), nil
	case ed25519.PublicKey:
		return classifyBytes(v)
	case ed25519.PrivateKey:
		return classifyBytes(v)
	case []byte:
		return classifyBytes(v)
	case Fields:
		if v == nil {
			return nil, fmt.Errorf("%w: nil fields", ErrInvalidInput)
		}
		return PartialFields(v), nil
	case map[string]any:
		if v == nil {
			return nil, fmt.Errorf("%w: nil fields", ErrInvalidInput)
		}
		return PartialFields(v), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidInput, v)
	}
}

func classifyBytes(b []byte) (Input, error) {
	switch len(b) {
	case ed25519.PublicKeySize:
		return PublicKeyBytes(b), nil
	case ed25519.PrivateKeySize:
		return KeypairBytes(b), nil
	default:
		return nil, fmt.Errorf("%w: key buffer of %d bytes", ErrInvalidInput, len(b))
	}
}

func (in PublicKeyHex) fields() (Fields, error) {
	if !isHexKey(string(in), ed25519.PublicKeySize) {
		return nil, fmt.Errorf("%w: string is not a %d-character hex public key", ErrInvalidInput, 2*ed25519.PublicKeySize)
	}
	raw, err := hex.DecodeString(string(in))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return Fields{FieldPublicKey: raw}, nil
}

func (in PublicKeyBytes) fields() (Fields, error) {
	if len(in) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key of %d bytes", ErrInvalidInput, len(in))
	}
	return Fields{FieldPublicKey: clone(in)}, nil
}

func (in KeypairBytes) fields() (Fields, error) {
	if len(in) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: secret key of %d bytes", ErrInvalidInput, len(in))
	}
	secretKey := clone(in)
	return Fields{
		FieldPublicKey: secretKey[ed25519.PrivateKeySize-ed25519.PublicKeySize:],
		FieldSecretKey: secretKey,
	}, nil
}

func (in PartialFields) fields() (Fields, error) {
	return maps.Clone(Fields(in)), nil
}

func isHexKey(s string, size int) bool {
	if len(s) != 2*size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
