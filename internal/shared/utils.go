// Package shared provides small helpers for random identifiers and
// generated file names.
package shared

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes, so the final
// string is twice as long.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ImageFileName builds a stored image name of the form
// "<16 hex chars>-<unix millis>.<ext>", where ext is taken from the
// subtype of the MIME content type (e.g. "image/png" -> "png").
func ImageFileName(contentType string, now time.Time) (string, error) {
	prefix, err := MakeRandHexString(8)
	if err != nil {
		return "", err
	}

	ext := contentType
	if i := strings.IndexByte(contentType, '/'); i >= 0 {
		ext = contentType[i+1:]
	}
	if i := strings.IndexByte(ext, ';'); i >= 0 {
		ext = ext[:i]
	}

	return fmt.Sprintf("%s-%d.%s", prefix, now.UnixMilli(), strings.TrimSpace(ext)), nil
}
