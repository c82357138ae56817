package encoder

import (
	"bytes"
	"strings"
	"testing"
)

// Valid minimal PNG data for 1x1 transparent pixel
var pngData = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, // PNG signature
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52, // IHDR chunk
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, // 1x1 dimensions
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41, // IDAT chunk start
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE, // IEND chunk
	0x42, 0x60, 0x82,
}

// JPEG SOI marker followed by a JFIF APP0 segment
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00}

func TestEncode_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		pngData,
		jpegHeader,
		bytes.Repeat([]byte{0xFF, 0x00, 0x7F}, 1000),
	}

	for i, input := range inputs {
		encoded := Encode(input)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("input %d: decode failed: %v", i, err)
		}
		if !bytes.Equal(decoded, input) {
			t.Errorf("input %d: round trip mismatch", i)
		}
	}
}

func TestEncode_Idempotent(t *testing.T) {
	first := Encode(pngData)
	second := Encode(pngData)
	if first != second {
		t.Error("Expected identical encodings for identical input")
	}
	if strings.ContainsAny(first, "\n\r ") {
		t.Error("Expected encoding without whitespace")
	}
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngData, "image/png"},
		{"jpeg", jpegHeader, "image/jpeg"},
		{"text falls back", []byte("hello world"), FallbackMIMEType},
		{"empty falls back", nil, FallbackMIMEType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MIMEType(tt.data); got != tt.want {
				t.Errorf("MIMEType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDataURL(t *testing.T) {
	url := DataURL(pngData)
	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("Expected prefix %q, got %q", prefix, url[:len(prefix)])
	}
	decoded, err := Decode(strings.TrimPrefix(url, prefix))
	if err != nil || !bytes.Equal(decoded, pngData) {
		t.Errorf("Expected payload to decode back to the image, err=%v", err)
	}
}
