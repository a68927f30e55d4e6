package securestore

import (
	"errors"
	"testing"
	"time"
)

func TestSealOpenRoundtrip(t *testing.T) {
	env, err := Seal("pass", []byte("secret"), []byte("0xabc"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	plain, err := Open("pass", env, []byte("0xabc"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(plain) != "secret" {
		t.Fatalf("unexpected plaintext: %q", string(plain))
	}
}

func TestOpenWrongPassphraseFails(t *testing.T) {
	env, err := Seal("pass", []byte("secret"), nil)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if _, err := Open("other", env, nil); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestOpenRejectsMismatchedAdditionalData(t *testing.T) {
	env, err := Seal("pass", []byte("secret"), []byte("0xabc"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if _, err := Open("pass", env, []byte("0xdef")); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestOpenTamperedCiphertextFails(t *testing.T) {
	env, err := Seal("pass", []byte("secret"), nil)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	env.Ciphertext[0] ^= 0xFF
	if _, err := Open("pass", env, nil); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestOpenRejectsMalformedEnvelope(t *testing.T) {
	env, err := Seal("pass", []byte("secret"), nil)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	malformed := *env
	malformed.Nonce = []byte{1, 2, 3}
	if _, err := Open("pass", &malformed, nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for malformed nonce, got %v", err)
	}

	downgraded := *env
	downgraded.KDFMemoryKB = 8 * 1024
	if _, err := Open("pass", &downgraded, nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for downgraded kdf, got %v", err)
	}

	if _, err := Open("pass", nil, nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for nil envelope, got %v", err)
	}
}

func TestOpenRejectsExcessiveKDFCost(t *testing.T) {
	env, err := Seal("pass", []byte("secret"), nil)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	for name, mutate := range map[string]func(*Envelope){
		"time":    func(e *Envelope) { e.KDFTime = 200 },
		"memory":  func(e *Envelope) { e.KDFMemoryKB = ^uint32(0) },
		"threads": func(e *Envelope) { e.KDFThreads = 255 },
	} {
		inflated := *env
		mutate(&inflated)
		start := time.Now()
		if _, err := Open("wrong", &inflated, nil); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("%s: rejection should not run the kdf, took %v", name, elapsed)
		}
	}

	atCeiling := *env
	atCeiling.KDFThreads = maxKDFThreads
	if _, err := Open("pass", &atCeiling, nil); errors.Is(err, ErrInvalid) {
		t.Fatalf("threads at the ceiling should be accepted, got %v", err)
	}
}

func TestSealRequiresPassphrase(t *testing.T) {
	if _, err := Seal("  ", []byte("secret"), nil); !errors.Is(err, ErrPassphraseMissing) {
		t.Fatalf("expected ErrPassphraseMissing, got %v", err)
	}
}
