package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// Source supplies uniform integers for flavor rolls and computer choices.
type Source interface {
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

var defaultSource Source = NewCryptoSource()

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. Each call draws
// fresh randomness; there is no shared generator state.
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}

type seededSource struct {
	rng *mrand.Rand
}

// NewSeededSource returns a reproducible Source. Only suitable for flavor
// rolls, never for committed values.
func NewSeededSource(seed int64) Source {
	u := uint64(seed)
	return &seededSource{rng: mrand.New(mrand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))}
}

func (s *seededSource) Intn(n int) int {
	return s.rng.IntN(n)
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
