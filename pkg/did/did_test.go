package did

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
)

func TestFormatParseRoundtrip(t *testing.T) {
	pub := bytes.Repeat([]byte{0xAB}, 32)
	s, err := Format(pub)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if s != Prefix+strings.Repeat("ab", 32) {
		t.Fatalf("unexpected did: %s", s)
	}
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !bytes.Equal(d.PublicKey(), pub) {
		t.Fatal("parsed public key mismatch")
	}
	if d.Identifier() != hex.EncodeToString(pub) || d.String() != s {
		t.Fatal("parsed did should render identically")
	}
}

func TestParseRejectsNonCanonical(t *testing.T) {
	valid := strings.Repeat("0f", 32)
	cases := []string{
		"",
		valid,
		"did:ara:",
		"did:eth:" + valid,
		"DID:ara:" + valid,
		"did:ara:" + strings.ToUpper(valid),
		"did:ara:" + valid[:62],
		"did:ara:" + valid + "00",
		"did:ara:" + valid[:62] + "zz",
	}
	for _, s := range cases {
		if _, err := Parse(s); !errors.Is(err, ErrInvalidDID) {
			t.Fatalf("%q: expected ErrInvalidDID, got %v", s, err)
		}
	}
}

func TestFormatRejectsBadKeySize(t *testing.T) {
	if _, err := Format(make([]byte, 31)); !errors.Is(err, ErrInvalidDID) {
		t.Fatalf("expected ErrInvalidDID, got %v", err)
	}
}

func TestNewDocumentReferencesKey(t *testing.T) {
	pub := bytes.Repeat([]byte{0x01}, 32)
	d, err := FromPublicKey(pub)
	if err != nil {
		t.Fatalf("from public key failed: %v", err)
	}
	doc := NewDocument(d)
	if doc.ID != d.String() {
		t.Fatalf("unexpected document id: %s", doc.ID)
	}
	if len(doc.VerificationMethod) != 1 {
		t.Fatalf("unexpected verification methods: %d", len(doc.VerificationMethod))
	}
	vm := doc.VerificationMethod[0]
	if vm.Controller != doc.ID || doc.Authentication[0] != vm.ID {
		t.Fatal("verification method should be self-controlled and used for authentication")
	}
	raw, err := base58.Decode(vm.PublicKeyBase58)
	if err != nil {
		t.Fatalf("decode base58: %v", err)
	}
	if !bytes.Equal(raw, pub) {
		t.Fatal("base58 key should decode to the public key")
	}
}
