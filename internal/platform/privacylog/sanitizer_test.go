package privacylog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	return payload
}

func TestSanitizeAttrFingerprintsIdentifiers(t *testing.T) {
	attr := SanitizeAttr(slog.String("DID", "did:ara:00ff"))
	if attr.Key != "DID_fp" {
		t.Fatalf("unexpected key: %v", attr.Key)
	}
	if got := attr.Value.String(); !strings.HasPrefix(got, "fp_") || got != FingerprintID("did:ara:00ff") {
		t.Fatalf("unexpected fingerprint value: %q", got)
	}
	if attr := SanitizeAttr(slog.String("kind", "wallet")); attr.Key != "kind" || attr.Value.String() != "wallet" {
		t.Fatalf("expected untouched attr, got %v", attr)
	}
}

func TestSanitizeAttrRedactsKeyMaterial(t *testing.T) {
	for _, key := range []string{"mnemonic", "secret_key", "wallet_private_key", "seed", "Passphrase"} {
		if got := SanitizeAttr(slog.String(key, "abandon")).Value.String(); got != redactedValue {
			t.Fatalf("expected %s redacted, got %v", key, got)
		}
	}
}

func TestFingerprintIDStableWithinProcess(t *testing.T) {
	a := FingerprintID("did:ara:00ff")
	if a != FingerprintID("  did:ara:00ff ") {
		t.Fatal("fingerprint should ignore surrounding whitespace")
	}
	if a == FingerprintID("did:ara:00fe") {
		t.Fatal("distinct values should not share a fingerprint")
	}
	if FingerprintID("") != "" {
		t.Fatal("empty value should have an empty fingerprint")
	}
}

func TestSanitizingHandlerRedactsSensitiveAndIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))
	logger.Info("test", "did", "did:ara:00ff", "passphrase", "hunter2", "status", "ok")

	payload := decodeLine(t, &buf)
	if _, ok := payload["did"]; ok {
		t.Fatal("did should not be present")
	}
	if _, ok := payload["did_fp"]; !ok {
		t.Fatal("did_fp should be present")
	}
	if got, _ := payload["passphrase"].(string); got != redactedValue {
		t.Fatalf("expected redacted passphrase, got %q", got)
	}
	if got, _ := payload["status"].(string); got != "ok" {
		t.Fatalf("expected untouched status, got %q", got)
	}
}

type loggable struct{ did string }

func (l loggable) LogValue() slog.Value {
	return slog.GroupValue(slog.String("did", l.did), slog.String("mnemonic", "abandon"))
}

func TestSanitizingHandlerResolvesLogValuers(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(slog.New(slog.NewJSONHandler(&buf, nil)))
	logger.Info("test", "identity", loggable{did: "did:ara:00ff"})

	if strings.Contains(buf.String(), "abandon") || strings.Contains(buf.String(), "did:ara:00ff") {
		t.Fatalf("nested values leaked: %s", buf.String())
	}
	group, ok := decodeLine(t, &buf)["identity"].(map[string]any)
	if !ok {
		t.Fatalf("expected identity group, got %s", buf.String())
	}
	if _, ok := group["did_fp"]; !ok {
		t.Fatal("nested did should be fingerprinted")
	}
}

func TestSanitizingHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil))).With("secret_key", "00aa")
	logger.Info("test")
	if strings.Contains(buf.String(), "00aa") {
		t.Fatalf("attrs added with With should be sanitized: %s", buf.String())
	}
}

func TestWrapHandlerIsIdempotent(t *testing.T) {
	h := WrapHandler(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	if WrapHandler(h) != h {
		t.Fatal("wrapping a sanitizing handler twice should be a no-op")
	}
	if WrapHandler(nil) != nil || Wrap(nil) != nil {
		t.Fatal("nil input should yield nil")
	}
}

func TestSanitizingHandlerImplementsSlogHandlerContract(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewJSONHandler(&buf, nil))
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected handler enabled for info")
	}
	rec := slog.NewRecord(time.Now().UTC(), slog.LevelInfo, "msg", 0)
	rec.AddAttrs(slog.String("identifier", "00ff"))
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !strings.Contains(buf.String(), "identifier_fp") {
		t.Fatalf("expected sanitized identifier key, got %s", buf.String())
	}
}
