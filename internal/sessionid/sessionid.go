// Package sessionid issues sortable identifiers for game sessions so log
// lines and transcripts from one session can be correlated.
package sessionid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, lower case.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded session ID.
const Length = 26

// New returns a UUIDv7 encoded as 26 base32 characters. IDs issued later
// sort after earlier ones.
func New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return Encode(id), nil
}

// Encode renders the 128 bits of id, most significant first, as 26
// characters. The two trailing pad bits are zero.
func Encode(id uuid.UUID) string {
	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		offset := i * 5
		byteIndex := offset / 8
		bitIndex := offset % 8

		var v uint8
		if bitIndex <= 3 {
			v = (id[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			v = (id[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < len(id) {
				v |= id[byteIndex+1] >> (11 - bitIndex)
			}
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Validate checks that s could have been produced by Encode.
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("session id must be exactly %d characters, got %d", Length, len(s))
	}
	for i, c := range s {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
