package securestore

import (
	"crypto/rand"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	envelopeVersion = 1
	kdfName         = "argon2id"
	saltSize        = 16

	defaultKDFTime     = uint32(2)
	defaultKDFMemoryKB = uint32(64 * 1024)
	defaultKDFThreads  = uint8(1)

	maxKDFTime     = uint32(8)
	maxKDFMemoryKB = uint32(1024 * 1024)
	maxKDFThreads  = uint8(16)
)

var (
	ErrAuthFailed        = errors.New("securestore authentication failed")
	ErrInvalid           = errors.New("securestore envelope is invalid")
	ErrPassphraseMissing = errors.New("securestore passphrase is required")
)

// Envelope is a passphrase-sealed secret. Field names are stable on disk.
type Envelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

// Seal encrypts plaintext under a key stretched from passphrase. additionalData
// is authenticated but not stored; Open must be given the same bytes.
func Seal(passphrase string, plaintext, additionalData []byte) (*Envelope, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, ErrPassphraseMissing
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := deriveKey(passphrase, salt, defaultKDFTime, defaultKDFMemoryKB, defaultKDFThreads)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return &Envelope{
		Version:     envelopeVersion,
		KDF:         kdfName,
		KDFTime:     defaultKDFTime,
		KDFMemoryKB: defaultKDFMemoryKB,
		KDFThreads:  defaultKDFThreads,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  aead.Seal(nil, nonce, plaintext, additionalData),
	}, nil
}

// Open reverses Seal. The KDF cost is read from the envelope and must lie
// between the sealing defaults and a fixed ceiling; anything outside is
// rejected before argon2 runs.
func Open(passphrase string, env *Envelope, additionalData []byte) ([]byte, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, ErrPassphraseMissing
	}
	if err := validate(env); err != nil {
		return nil, err
	}
	key := deriveKey(passphrase, env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, additionalData)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func validate(env *Envelope) error {
	switch {
	case env == nil:
		return ErrInvalid
	case env.Version != envelopeVersion, env.KDF != kdfName:
		return ErrInvalid
	case env.KDFTime < defaultKDFTime, env.KDFMemoryKB < defaultKDFMemoryKB, env.KDFThreads < 1:
		return ErrInvalid
	case env.KDFTime > maxKDFTime, env.KDFMemoryKB > maxKDFMemoryKB, env.KDFThreads > maxKDFThreads:
		return ErrInvalid
	case len(env.Salt) != saltSize, len(env.Nonce) != chacha20poly1305.NonceSizeX:
		return ErrInvalid
	}
	return nil
}

func deriveKey(passphrase string, salt []byte, time, memoryKB uint32, threads uint8) []byte {
	return argon2.IDKey([]byte(passphrase), salt, time, memoryKB, threads, chacha20poly1305.KeySize)
}

// ZeroBytes overwrites b in place.
func ZeroBytes(b []byte) {
	zeroBytes(b)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
