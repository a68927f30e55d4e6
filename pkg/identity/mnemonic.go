package identity

import (
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// DefaultMnemonicStrength yields 12-word phrases.
const DefaultMnemonicStrength = 128

// NormalizeMnemonic collapses runs of whitespace to single spaces. Seeds are
// always derived from the normalized phrase.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// ValidateMnemonic checks word count, wordlist membership and checksum
// against the active BIP-39 wordlist.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// GenerateMnemonic returns a fresh phrase from crypto/rand. bits must be a
// multiple of 32 in [128, 256].
func GenerateMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func mnemonicSeed(mnemonic string) []byte {
	return bip39.NewSeed(mnemonic, "")
}
