package qr

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerateDataURL(t *testing.T) {
	g := NewGenerator("https://pickup.example.com")

	out, err := g.Generate("REF-001")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(out, prefix) {
		t.Fatalf("expected png data url, got %.40s", out)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, prefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	// png magic bytes
	if len(raw) < 8 || raw[1] != 'P' || raw[2] != 'N' || raw[3] != 'G' {
		t.Error("payload is not a png")
	}
}

func TestGenerateEscapesReference(t *testing.T) {
	g := NewGenerator("https://pickup.example.com")

	if _, err := g.Generate("REF 001&x=1"); err != nil {
		t.Fatalf("generate with awkward key: %v", err)
	}
}
