package wallet

import (
	"errors"
	"testing"

	"github.com/tyler-smith/go-bip32"
)

func TestParsePathRoundtrip(t *testing.T) {
	p, err := ParsePath("m/44h/60'/0H/0/7")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := Path{44 + bip32.FirstHardenedChild, 60 + bip32.FirstHardenedChild, bip32.FirstHardenedChild, 0, 7}
	if len(p) != len(want) {
		t.Fatalf("unexpected length: %d", len(p))
	}
	for i := range want {
		if p[i] != want[i] {
			t.Fatalf("segment %d: got %d want %d", i, p[i], want[i])
		}
	}
	if got := p.String(); got != "m/44'/60'/0'/0/7" {
		t.Fatalf("unexpected string form: %s", got)
	}
}

func TestParsePathMasterOnly(t *testing.T) {
	p, err := ParsePath("m")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(p) != 0 || p.String() != "m" {
		t.Fatalf("unexpected master path: %v", p)
	}
}

func TestParsePathRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "44'/60'", "m/", "m//0", "m/01", "m/-1", "m/x", "m/2147483648", "m/0''"} {
		if _, err := ParsePath(raw); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("%q: expected ErrInvalidPath, got %v", raw, err)
		}
	}
}
