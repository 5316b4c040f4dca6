package fairness

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// ValueSource draws uniform integers in [0, n).
type ValueSource interface {
	Intn(n int) (int, error)
}

type cryptoValues struct{}

func (cryptoValues) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Generator creates commitments. The zero configuration uses crypto/rand for
// both keys and values; both sources must be safe for concurrent use when the
// generator is shared, as Audit does.
type Generator struct {
	keys   io.Reader
	values ValueSource
	alg    Algorithm
}

// Option configures a Generator.
type Option func(*Generator)

// WithKeyReader replaces the source of commitment keys.
func WithKeyReader(r io.Reader) Option {
	return func(g *Generator) { g.keys = r }
}

// WithValueSource replaces the source of committed values.
func WithValueSource(v ValueSource) Option {
	return func(g *Generator) { g.values = v }
}

// WithAlgorithm selects the keyed hash.
func WithAlgorithm(a Algorithm) Option {
	return func(g *Generator) { g.alg = a }
}

// NewGenerator returns a generator backed by crypto/rand unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		keys:   rand.Reader,
		values: cryptoValues{},
		alg:    DefaultAlgorithm,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Algorithm returns the keyed hash in use.
func (g *Generator) Algorithm() Algorithm { return g.alg }

// Commit binds value under a fresh key.
func (g *Generator) Commit(value int) (*Pending, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(g.keys, key); err != nil {
		return nil, fmt.Errorf("%w: read key: %v", ErrEntropy, err)
	}
	return &Pending{
		alg:    g.alg,
		key:    key,
		value:  value,
		digest: Sum(g.alg, key, value),
	}, nil
}

// Generate draws a value uniformly from [0, modulus) and commits to it.
func (g *Generator) Generate(modulus int) (*Pending, error) {
	if modulus < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidModulus, modulus)
	}
	v, err := g.values.Intn(modulus)
	if err != nil {
		return nil, fmt.Errorf("%w: draw value: %v", ErrEntropy, err)
	}
	if v < 0 || v >= modulus {
		return nil, fmt.Errorf("%w: value %d outside [0, %d)", ErrEntropy, v, modulus)
	}
	p, err := g.Commit(v)
	if err != nil {
		return nil, err
	}
	p.modulus = modulus
	return p, nil
}

// Pending is a published commitment whose value and key are still sealed.
// Only the digest is readable until Reveal.
type Pending struct {
	alg      Algorithm
	key      []byte
	value    int
	modulus  int
	digest   []byte
	revealed bool
}

// Digest returns the published HMAC as upper-case hex.
func (p *Pending) Digest() string { return encode(p.digest) }

// Algorithm returns the keyed hash used for the digest.
func (p *Pending) Algorithm() Algorithm { return p.alg }

// Modulus returns the range the value was drawn from, or 0 for Commit.
func (p *Pending) Modulus() int { return p.modulus }

// Reveal opens the commitment. It succeeds exactly once.
func (p *Pending) Reveal() (Disclosure, error) {
	if p.revealed {
		return Disclosure{}, ErrAlreadyRevealed
	}
	p.revealed = true

	key := make([]byte, len(p.key))
	copy(key, p.key)
	digest := make([]byte, len(p.digest))
	copy(digest, p.digest)

	return Disclosure{
		Value:     p.value,
		Key:       key,
		Digest:    digest,
		Algorithm: p.alg,
	}, nil
}
