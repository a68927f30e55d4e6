// Package did formats and parses did:ara identifiers.
package did

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	Method = "ara"
	Prefix = "did:" + Method + ":"

	identifierLen = 2 * ed25519.PublicKeySize
)

var ErrInvalidDID = errors.New("invalid did")

// DID is a parsed did:ara identifier.
type DID struct {
	publicKey [ed25519.PublicKeySize]byte
}

// Format returns the DID string for a 32-byte public key.
func Format(publicKey []byte) (string, error) {
	d, err := FromPublicKey(publicKey)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func FromPublicKey(publicKey []byte) (DID, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return DID{}, fmt.Errorf("%w: public key size %d", ErrInvalidDID, len(publicKey))
	}
	var d DID
	copy(d.publicKey[:], publicKey)
	return d, nil
}

// Parse accepts only the canonical form: the did:ara: prefix followed by 64
// lowercase hex characters.
func Parse(s string) (DID, error) {
	identifier, ok := strings.CutPrefix(s, Prefix)
	if !ok {
		return DID{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidDID, Prefix)
	}
	if len(identifier) != identifierLen || !isLowerHex(identifier) {
		return DID{}, fmt.Errorf("%w: identifier must be %d lowercase hex characters", ErrInvalidDID, identifierLen)
	}
	var d DID
	if _, err := hex.Decode(d.publicKey[:], []byte(identifier)); err != nil {
		return DID{}, fmt.Errorf("%w: %v", ErrInvalidDID, err)
	}
	return d, nil
}

func (d DID) PublicKey() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), d.publicKey[:]...)
}

func (d DID) Identifier() string {
	return hex.EncodeToString(d.publicKey[:])
}

func (d DID) String() string {
	return Prefix + d.Identifier()
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
