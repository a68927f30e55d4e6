package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AraBlocks/TinyAra/internal/securestore"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Scrypt costs for EncryptKeystoreV3. The standard pair matches what common
// Ethereum clients write; the light pair is for tests and constrained devices.
const (
	StandardScryptN = 1 << 18
	StandardScryptP = 1
	LightScryptN    = 1 << 12
	LightScryptP    = 6
)

const (
	keystoreV3      = 3
	v3Cipher        = "aes-128-ctr"
	v3DKLen         = 32
	v3ScryptR       = 8
	v3PBKDF2PRF     = "hmac-sha256"
	v3SaltSize      = 32
	maxScryptMemory = 1 << 28
	maxScryptWork   = 1 << 23
	maxPBKDF2Rounds = 1 << 21
)

type v3Keystore struct {
	Address string   `json:"address"`
	Crypto  v3Crypto `json:"crypto"`
	ID      string   `json:"id"`
	Version int      `json:"version"`
}

type v3Crypto struct {
	Cipher       string          `json:"cipher"`
	CipherText   string          `json:"ciphertext"`
	CipherParams v3CipherParams  `json:"cipherparams"`
	KDF          string          `json:"kdf"`
	KDFParams    json.RawMessage `json:"kdfparams"`
	MAC          string          `json:"mac"`
}

type v3CipherParams struct {
	IV string `json:"iv"`
}

type v3ScryptParams struct {
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
}

type v3PBKDF2Params struct {
	C     int    `json:"c"`
	DKLen int    `json:"dklen"`
	PRF   string `json:"prf"`
	Salt  string `json:"salt"`
}

// EncryptKeystoreV3 writes the private key as a Web3 Secret Storage v3
// keystore (scrypt, aes-128-ctr, keccak-256 MAC). The mnemonic and path are
// not part of the format and are not stored.
func (w *Wallet) EncryptKeystoreV3(passphrase string, scryptN, scryptP int) ([]byte, error) {
	if err := checkScrypt(scryptN, v3ScryptR, scryptP); err != nil {
		return nil, err
	}
	salt := make([]byte, v3SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	derived, err := scrypt.Key([]byte(passphrase), salt, scryptN, v3ScryptR, scryptP, v3DKLen)
	if err != nil {
		return nil, err
	}
	defer securestore.ZeroBytes(derived)

	ciphertext, err := aesCTR(derived[:16], iv, w.privateKey)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(v3ScryptParams{
		N:     scryptN,
		R:     v3ScryptR,
		P:     scryptP,
		DKLen: v3DKLen,
		Salt:  hex.EncodeToString(salt),
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(v3Keystore{
		Address: hex.EncodeToString(w.address[:]),
		Crypto: v3Crypto{
			Cipher:       v3Cipher,
			CipherText:   hex.EncodeToString(ciphertext),
			CipherParams: v3CipherParams{IV: hex.EncodeToString(iv)},
			KDF:          "scrypt",
			KDFParams:    params,
			MAC:          hex.EncodeToString(v3MAC(derived, ciphertext)),
		},
		ID:      id.String(),
		Version: keystoreV3,
	})
}

func fromKeystoreV3(data []byte, passphrase string) (*Wallet, error) {
	var ks v3Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeystoreInvalid, err)
	}
	c := ks.Crypto
	if c.Cipher != v3Cipher {
		return nil, fmt.Errorf("%w: unsupported cipher %q", ErrKeystoreInvalid, c.Cipher)
	}
	ciphertext, err := hex.DecodeString(c.CipherText)
	if err != nil || len(ciphertext) != PrivateKeySize {
		return nil, fmt.Errorf("%w: ciphertext", ErrKeystoreInvalid)
	}
	iv, err := hex.DecodeString(c.CipherParams.IV)
	if err != nil || len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv", ErrKeystoreInvalid)
	}
	mac, err := hex.DecodeString(c.MAC)
	if err != nil {
		return nil, fmt.Errorf("%w: mac", ErrKeystoreInvalid)
	}

	derived, err := v3DeriveKey(c.KDF, c.KDFParams, passphrase)
	if err != nil {
		return nil, err
	}
	defer securestore.ZeroBytes(derived)

	if subtle.ConstantTimeCompare(v3MAC(derived, ciphertext), mac) != 1 {
		return nil, ErrKeystoreAuth
	}
	key, err := aesCTR(derived[:16], iv, ciphertext)
	if err != nil {
		return nil, err
	}
	defer securestore.ZeroBytes(key)

	w, err := fromScalar(key)
	if err != nil {
		return nil, err
	}
	if ks.Address != "" {
		want := strings.TrimPrefix(strings.ToLower(ks.Address), "0x")
		if want != hex.EncodeToString(w.address[:]) {
			return nil, fmt.Errorf("%w: address mismatch", ErrKeystoreInvalid)
		}
	}
	return w, nil
}

// v3DeriveKey checks the KDF cost against fixed ceilings before running it.
func v3DeriveKey(kdf string, raw json.RawMessage, passphrase string) ([]byte, error) {
	switch kdf {
	case "scrypt":
		var p v3ScryptParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: kdfparams: %v", ErrKeystoreInvalid, err)
		}
		salt, err := hex.DecodeString(p.Salt)
		if err != nil || len(salt) == 0 || p.DKLen != v3DKLen {
			return nil, fmt.Errorf("%w: kdfparams", ErrKeystoreInvalid)
		}
		if err := checkScrypt(p.N, p.R, p.P); err != nil {
			return nil, err
		}
		return scrypt.Key([]byte(passphrase), salt, p.N, p.R, p.P, p.DKLen)
	case "pbkdf2":
		var p v3PBKDF2Params
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: kdfparams: %v", ErrKeystoreInvalid, err)
		}
		salt, err := hex.DecodeString(p.Salt)
		if err != nil || len(salt) == 0 || p.DKLen != v3DKLen || p.PRF != v3PBKDF2PRF {
			return nil, fmt.Errorf("%w: kdfparams", ErrKeystoreInvalid)
		}
		if p.C < 1 || p.C > maxPBKDF2Rounds {
			return nil, fmt.Errorf("%w: pbkdf2 rounds %d out of range", ErrKeystoreInvalid, p.C)
		}
		return pbkdf2.Key([]byte(passphrase), salt, p.C, p.DKLen, sha256.New), nil
	default:
		return nil, fmt.Errorf("%w: unsupported kdf %q", ErrKeystoreInvalid, kdf)
	}
}

func checkScrypt(n, r, p int) error {
	switch {
	case n <= 1 || n&(n-1) != 0:
		return fmt.Errorf("%w: scrypt n must be a power of two above 1, got %d", ErrKeystoreInvalid, n)
	case r < 1 || p < 1 || r > 32 || p > 64:
		return fmt.Errorf("%w: scrypt r=%d p=%d out of range", ErrKeystoreInvalid, r, p)
	case n > maxScryptMemory/(128*r), n > maxScryptWork/(r*p):
		return fmt.Errorf("%w: scrypt cost n=%d r=%d p=%d exceeds limits", ErrKeystoreInvalid, n, r, p)
	}
	return nil
}

func v3MAC(derived, ciphertext []byte) []byte {
	buf := make([]byte, 0, 16+len(ciphertext))
	buf = append(buf, derived[16:32]...)
	buf = append(buf, ciphertext...)
	return keccak256(buf)
}

func aesCTR(key, iv, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)
	return out, nil
}
