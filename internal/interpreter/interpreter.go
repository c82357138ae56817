package interpreter

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	apperrors "go-image-classifier/internal/errors"
	"go-image-classifier/pkg/models"
)

// Interpret converts a raw model answer into the value recorded for an image.
//
// In binary mode the trimmed answer must parse as a base-10 integer with an
// optional sign; any integer is accepted, however large. Otherwise a "NaN (<first character>)" marker is returned together
// with an unparseable error for the caller to log. Outside binary mode the
// trimmed answer is returned unchanged.
func Interpret(raw string, binary bool) models.ResultValue {
	text := strings.TrimSpace(raw)
	if !binary {
		return models.TextValue(text)
	}

	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return models.UnparseableValue(
			Marker(text),
			apperrors.NewUnparseableError(fmt.Sprintf("expected an integer answer, got %q", text), nil),
		)
	}
	return models.IntegerValue(n)
}

// Marker builds the diagnostic value written in place of an unparseable answer.
func Marker(text string) string {
	first := ""
	if r, size := utf8.DecodeRuneInString(text); size > 0 {
		first = string(r)
	}
	return fmt.Sprintf("NaN (%s)", first)
}
