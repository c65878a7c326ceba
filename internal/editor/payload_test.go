package editor

import (
	"bytes"
	"strings"
	"testing"
)

// Minimal valid PNG header so MIME sniffing resolves to image/png.
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0x01}, 32)...)

func TestPayloadRoundTrip(t *testing.T) {
	p := NewPayload(pngBytes)
	if p.MimeType != "image/png" {
		t.Fatalf("sniffed MIME mismatch: %q", p.MimeType)
	}

	parsed, err := ParseDataURI(p.DataURI())
	if err != nil {
		t.Fatalf("ParseDataURI: %v", err)
	}
	if parsed.MimeType != p.MimeType {
		t.Fatalf("MIME changed in round trip: %q vs %q", parsed.MimeType, p.MimeType)
	}
	decoded, err := parsed.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(decoded, pngBytes) {
		t.Fatal("decoded bytes differ from original")
	}
}

func TestReadPayload(t *testing.T) {
	p, err := ReadPayload(bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("ReadPayload: %v", err)
	}
	if p.MimeType != "image/png" {
		t.Fatalf("MIME mismatch: %q", p.MimeType)
	}

	if _, err := ReadPayload(strings.NewReader("")); !IsCode(err, CodeDecodeFailed) {
		t.Fatalf("empty file should fail with decode_failed, got %v", err)
	}
}

func TestParseDataURIMalformed(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"no comma separator", "data:image/png;base64"},
		{"missing base64 marker", "data:image/png,YWJj"},
		{"no data prefix", "image/png;base64,YWJj"},
		{"unmatchable mime", "data:notamime;base64,YWJj"},
		{"empty mime", "data:;base64,YWJj"},
		{"mime without subtype", "data:image/;base64,YWJj"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataURI(tt.uri)
			if !IsCode(err, CodeDecodeFailed) {
				t.Fatalf("expected decode_failed, got %v", err)
			}
		})
	}
}

func TestParseDataURIKeepsBodyVerbatim(t *testing.T) {
	p, err := ParseDataURI("data:image/jpeg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("ParseDataURI: %v", err)
	}
	if p.MimeType != "image/jpeg" || p.Base64Data != "aGVsbG8=" {
		t.Fatalf("payload mismatch: %#v", p)
	}
}
