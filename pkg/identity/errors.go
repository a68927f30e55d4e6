package identity

import "errors"

var (
	// ErrInvalidInput reports input or options of an unsupported shape, or key
	// material violating the length and keypair rules.
	ErrInvalidInput = errors.New("invalid identity input")
	// ErrInvalidMnemonic reports a caller-supplied mnemonic that fails BIP-39
	// wordlist or checksum validation.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
)
