package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"
)

const (
	PrivateKeySize = 32
	AddressSize    = 20
)

var (
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrInvalidPath       = errors.New("invalid derivation path")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrDerivation        = errors.New("wallet derivation failed")
)

// Wallet is an Ethereum-style secp256k1 account. It is immutable once built;
// accessors return copies.
type Wallet struct {
	privateKey []byte
	publicKey  []byte
	address    [AddressSize]byte
	mnemonic   string
	path       string
}

// FromMnemonic derives the account at path (DefaultPath when empty) from a
// BIP-39 mnemonic with an empty passphrase.
func FromMnemonic(mnemonic, path string) (*Wallet, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	key, err := bip32.NewMasterKey(bip39.NewSeed(mnemonic, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	for _, idx := range parsed {
		key, err = key.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDerivation, err)
		}
	}

	w, err := fromScalar(key.Key)
	if err != nil {
		return nil, err
	}
	w.mnemonic = mnemonic
	w.path = parsed.String()
	return w, nil
}

// FromPrivateKey accepts a raw 32-byte key or its hex form, with or without
// a 0x prefix.
func FromPrivateKey(key any) (*Wallet, error) {
	switch v := key.(type) {
	case []byte:
		return fromScalar(v)
	case string:
		raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(v), "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		return fromScalar(raw)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidPrivateKey, key)
	}
}

func fromScalar(raw []byte) (*Wallet, error) {
	if len(raw) != PrivateKeySize {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidPrivateKey, len(raw))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: out of range", ErrInvalidPrivateKey)
	}
	priv := secp256k1.NewPrivateKey(&scalar)
	pub := priv.PubKey().SerializeUncompressed()

	w := &Wallet{
		privateKey: priv.Serialize(),
		publicKey:  pub,
	}
	copy(w.address[:], keccak256(pub[1:])[12:])
	return w, nil
}

func (w *Wallet) PrivateKey() []byte {
	return append([]byte(nil), w.privateKey...)
}

// PublicKey returns the 65-byte uncompressed secp256k1 public key.
func (w *Wallet) PublicKey() []byte {
	return append([]byte(nil), w.publicKey...)
}

// Address returns the EIP-55 checksummed address.
func (w *Wallet) Address() string {
	return checksumAddress(w.address)
}

// Mnemonic is empty for wallets not derived from a mnemonic.
func (w *Wallet) Mnemonic() string {
	return w.mnemonic
}

func (w *Wallet) Path() string {
	return w.path
}

// Equal reports whether both wallets hold the same account.
func (w *Wallet) Equal(other *Wallet) bool {
	if w == nil || other == nil {
		return w == other
	}
	return w.address == other.address && string(w.privateKey) == string(other.privateKey)
}

func keccak256(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return h.Sum(nil)
}

func checksumAddress(addr [AddressSize]byte) string {
	lower := hex.EncodeToString(addr[:])
	hash := keccak256([]byte(lower))
	out := make([]byte, 0, 2+len(lower))
	out = append(out, '0', 'x')
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if c >= 'a' && nibble&0x0f >= 8 {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
