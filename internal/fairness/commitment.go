package fairness

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// KeySize is the length in bytes of every commitment key.
const KeySize = 32

// Algorithm names the hash used inside the HMAC.
type Algorithm string

const (
	SHA3   Algorithm = "sha3-256"
	SHA256 Algorithm = "sha256"
)

// DefaultAlgorithm is used when none is configured.
const DefaultAlgorithm = SHA3

// ParseAlgorithm accepts the algorithm names case-insensitively. An empty
// string selects DefaultAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultAlgorithm, nil
	case string(SHA3), "sha3":
		return SHA3, nil
	case string(SHA256), "sha2-256":
		return SHA256, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

func (a Algorithm) hasher() func() hash.Hash {
	if a == SHA256 {
		return sha256.New
	}
	return sha3.New256
}

// Label is the display name, e.g. "HMAC-SHA3-256".
func (a Algorithm) Label() string {
	return "HMAC-" + strings.ToUpper(string(a))
}

// Sum computes HMAC(key, decimal(value)).
func Sum(alg Algorithm, key []byte, value int) []byte {
	mac := hmac.New(alg.hasher(), key)
	mac.Write([]byte(strconv.Itoa(value)))
	return mac.Sum(nil)
}

// Verify reports whether digest is the HMAC of value under key. The
// comparison is constant time.
func Verify(alg Algorithm, key []byte, value int, digest []byte) bool {
	return hmac.Equal(Sum(alg, key, value), digest)
}

// VerifyHex is Verify for hex encoded key and digest, as printed to players.
func VerifyHex(alg Algorithm, keyHex string, value int, digestHex string) (bool, error) {
	key, err := hex.DecodeString(strings.TrimSpace(keyHex))
	if err != nil {
		return false, fmt.Errorf("decode key: %w", err)
	}
	digest, err := hex.DecodeString(strings.TrimSpace(digestHex))
	if err != nil {
		return false, fmt.Errorf("decode digest: %w", err)
	}
	return Verify(alg, key, value, digest), nil
}

func encode(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// Disclosure is the revealed half of a commitment.
type Disclosure struct {
	Value     int
	Key       []byte
	Digest    []byte
	Algorithm Algorithm
}

// KeyHex returns the key as upper-case hex.
func (d Disclosure) KeyHex() string { return encode(d.Key) }

// DigestHex returns the digest as upper-case hex.
func (d Disclosure) DigestHex() string { return encode(d.Digest) }

// Verify recomputes the digest from the disclosed key and value.
func (d Disclosure) Verify() bool {
	return Verify(d.Algorithm, d.Key, d.Value, d.Digest)
}
