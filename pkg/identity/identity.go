package identity

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log/slog"
	"maps"

	"github.com/AraBlocks/TinyAra/pkg/did"
)

const (
	FieldPublicKey = "publicKey"
	FieldSecretKey = "secretKey"
)

// Fields holds named identity fields. FieldPublicKey and FieldSecretKey
// accept []byte, ed25519 key types or hex strings; other keys are kept
// verbatim and readable through Identity.Field.
type Fields map[string]any

// Identity is an immutable public key with an optional Ed25519 secret key.
// The identifier and DID are computed from the public key on every call.
type Identity struct {
	publicKey ed25519.PublicKey
	secretKey ed25519.PrivateKey
	extra     Fields
}

// From classifies input and builds an Identity from it, with opts fields
// taking precedence over fields derived from input.
func From(input any, opts Fields) (*Identity, error) {
	in, err := Classify(input)
	if err != nil {
		return nil, err
	}
	return FromInput(in, opts)
}

func FromInput(in Input, opts Fields) (*Identity, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidInput)
	}
	base, err := in.fields()
	if err != nil {
		return nil, err
	}
	merged := make(Fields, len(base)+len(opts))
	maps.Copy(merged, base)
	maps.Copy(merged, opts)
	return newIdentity(merged)
}

func newIdentity(f Fields) (*Identity, error) {
	publicKey, err := keyField(f, FieldPublicKey, ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}
	secretKey, err := keyField(f, FieldSecretKey, ed25519.PrivateKeySize)
	if err != nil {
		return nil, err
	}
	if secretKey != nil {
		suffix := secretKey[ed25519.PrivateKeySize-ed25519.PublicKeySize:]
		switch {
		case publicKey == nil:
			publicKey = clone(suffix)
		case !bytes.Equal(suffix, publicKey):
			return nil, fmt.Errorf("%w: secret key does not end with public key", ErrInvalidInput)
		}
	}

	extra := make(Fields, len(f))
	for k, v := range f {
		if k == FieldPublicKey || k == FieldSecretKey {
			continue
		}
		extra[k] = v
	}
	return &Identity{
		publicKey: publicKey,
		secretKey: secretKey,
		extra:     extra,
	}, nil
}

// keyField returns a copy of the named key, or nil when it is absent or nil.
func keyField(f Fields, name string, size int) ([]byte, error) {
	var raw []byte
	switch v := f[name].(type) {
	case nil:
		return nil, nil
	case []byte:
		raw = v
	case ed25519.PublicKey:
		raw = v
	case ed25519.PrivateKey:
		raw = v
	case string:
		if !isHexKey(v, size) {
			return nil, fmt.Errorf("%w: %s is not %d hex-encoded bytes", ErrInvalidInput, name, size)
		}
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidInput, name, v)
	}
	if raw == nil {
		return nil, nil
	}
	if len(raw) != size {
		return nil, fmt.Errorf("%w: %s must be %d bytes, got %d", ErrInvalidInput, name, size, len(raw))
	}
	return clone(raw), nil
}

func (id *Identity) PublicKey() ed25519.PublicKey {
	if id.publicKey == nil {
		return nil
	}
	return clone(id.publicKey)
}

func (id *Identity) SecretKey() ed25519.PrivateKey {
	if id.secretKey == nil {
		return nil
	}
	return clone(id.secretKey)
}

func (id *Identity) HasSecretKey() bool {
	return id.secretKey != nil
}

// Identifier is the lowercase hex public key, or "" without one.
func (id *Identity) Identifier() string {
	if id.publicKey == nil {
		return ""
	}
	return hex.EncodeToString(id.publicKey)
}

// DID is did:ara: followed by the identifier, or "" without a public key.
func (id *Identity) DID() string {
	identifier := id.Identifier()
	if identifier == "" {
		return ""
	}
	return did.Prefix + identifier
}

// Field returns an additional field supplied at construction.
func (id *Identity) Field(name string) (any, bool) {
	v, ok := id.extra[name]
	return v, ok
}

// Document returns the DID document of an identity with a public key.
func (id *Identity) Document() (did.Document, error) {
	d, err := did.FromPublicKey(id.publicKey)
	if err != nil {
		return did.Document{}, err
	}
	return did.NewDocument(d), nil
}

// Equal compares key material only.
func (id *Identity) Equal(other *Identity) bool {
	if id == nil || other == nil {
		return id == other
	}
	return bytes.Equal(id.publicKey, other.publicKey) && bytes.Equal(id.secretKey, other.secretKey)
}

// String keeps secret keys out of %v and %s output.
func (id *Identity) String() string {
	if d := id.DID(); d != "" {
		return d
	}
	return "identity(empty)"
}

func (id *Identity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("did", id.DID()),
		slog.Bool("can_sign", id.HasSecretKey()),
	)
}
