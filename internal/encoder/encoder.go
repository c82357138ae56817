// Package encoder turns raw image bytes into the text form embedded in model requests.
package encoder

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FallbackMIMEType is used when the bytes are not recognised as an image.
const FallbackMIMEType = "image/jpeg"

// Encode returns the standard base64 encoding of data.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode.
func Decode(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}

// MIMEType sniffs the image type from its leading bytes.
func MIMEType(data []byte) string {
	detected := mimetype.Detect(data).String()
	if !strings.HasPrefix(detected, "image/") {
		return FallbackMIMEType
	}
	// Drop parameters such as "; charset=binary".
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = strings.TrimSpace(detected[:i])
	}
	return detected
}

// DataURL returns data as an inline "data:<mime>;base64,<payload>" reference.
func DataURL(data []byte) string {
	return "data:" + MIMEType(data) + ";base64," + Encode(data)
}
