package identity

import (
	"encoding/hex"
	"strings"
	"testing"
)

const abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestMnemonicSeedKnownVector(t *testing.T) {
	want := "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
	if got := hex.EncodeToString(mnemonicSeed(abandonMnemonic)); got != want {
		t.Fatalf("unexpected seed: %s", got)
	}
}

func TestGenerateMnemonicStrengths(t *testing.T) {
	for bits, words := range map[int]int{128: 12, 160: 15, 192: 18, 224: 21, 256: 24} {
		m, err := GenerateMnemonic(bits)
		if err != nil {
			t.Fatalf("generate %d bits failed: %v", bits, err)
		}
		if got := len(strings.Fields(m)); got != words {
			t.Fatalf("%d bits: expected %d words, got %d", bits, words, got)
		}
		if !ValidateMnemonic(m) {
			t.Fatalf("generated mnemonic must be valid: %q", m)
		}
	}
	if _, err := GenerateMnemonic(100); err == nil {
		t.Fatal("expected error for unsupported strength")
	}
}

func TestValidateMnemonic(t *testing.T) {
	if !ValidateMnemonic("  abandon abandon abandon abandon abandon abandon\tabandon abandon abandon abandon abandon about\n") {
		t.Fatal("whitespace variations of a valid mnemonic should validate")
	}
	for _, m := range []string{
		"",
		"invalid bogus words here",
		strings.Repeat("abandon ", 12),
		strings.Replace(abandonMnemonic, "about", "above", 1),
	} {
		if ValidateMnemonic(m) {
			t.Fatalf("expected %q to be invalid", m)
		}
	}
}
