package random

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mathrand "math/rand/v2"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns a cryptographically random string of n ASCII letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(allowedLetters))))
		if err != nil {
			return "", err
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// Source is a source of uniformly distributed integers.
//
// IntN returns a value in [0, n) and panics if n <= 0, like [mathrand.IntN].
type Source interface {
	IntN(n int) int
}

// Seeded is a deterministic [Source] whose position in its sequence can be saved with MarshalBinary and picked up
// again with UnmarshalBinary.
type Seeded struct {
	*mathrand.Rand
	pcg *mathrand.PCG
}

// NewSeeded returns a deterministic Source. Two sources with the same seed produce the same sequence.
func NewSeeded(seed uint64) *Seeded {
	pcg := mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Seeded{Rand: mathrand.New(pcg), pcg: pcg} //nolint:gosec // game randomness
}

func (s *Seeded) MarshalBinary() ([]byte, error) {
	return s.pcg.MarshalBinary() //nolint:wrapcheck // the PCG error is descriptive
}

func (s *Seeded) UnmarshalBinary(data []byte) error {
	return s.pcg.UnmarshalBinary(data) //nolint:wrapcheck // the PCG error is descriptive
}

// New returns a Source seeded from crypto/rand.
func New() (Source, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	return NewSeeded(binary.LittleEndian.Uint64(b[:])), nil
}

// Shuffle shuffles s in place using the Fisher-Yates algorithm.
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
