package ident

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextIsDeterministicForFixedRandomness(t *testing.T) {
	gen := &Generator{rand: bytes.NewReader(make([]byte, tokenBytes))}

	id, err := gen.Next()
	require.NoError(t, err)
	// 7 zero bytes encode to "AAAAAAAAAA=="; padding maps to the filler and
	// the trailing 9 characters are kept.
	require.Equal(t, "AAAAAAA00", id)
}

func TestNextShape(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id, err := gen.Next()
		require.NoError(t, err)
		require.Len(t, id, Length)
		for _, c := range []byte(id) {
			require.True(t, isAlphanumeric(c), "id %q contains non-alphanumeric %q", id, c)
		}
		seen[id] = struct{}{}
	}
	// Collisions across 1000 draws from a 2^56 space would indicate broken randomness.
	require.Len(t, seen, 1000)
}

func TestNextPropagatesReaderFailure(t *testing.T) {
	gen := &Generator{rand: failingReader{}}

	_, err := gen.Next()
	require.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

var _ io.Reader = failingReader{}
