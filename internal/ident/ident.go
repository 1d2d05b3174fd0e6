// Package ident generates short, storage-safe user identifiers.
package ident

import (
	"crypto/rand"
	"encoding/base64"
	"io"
)

// Length is the fixed identifier length in characters.
const Length = 9

// filler replaces any non-alphanumeric character produced by the encoding so
// identifiers stay URL- and storage-safe.
const filler = '0'

// tokenBytes is the amount of randomness drawn per identifier. 7 bytes encode
// to 12 base64 characters, of which the trailing 9 are kept.
const tokenBytes = 7

// Generator produces random fixed-length identifiers.
type Generator struct {
	rand io.Reader
}

// NewGenerator constructs a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// Next returns a new identifier: a cryptographically random byte sequence,
// base64-encoded, with non-alphanumeric characters mapped to the filler and
// truncated to Length. Uniqueness is not checked here; callers enforce it
// against their store.
func (g *Generator) Next() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", err
	}

	encoded := []byte(base64.StdEncoding.EncodeToString(buf))
	for i, c := range encoded {
		if !isAlphanumeric(c) {
			encoded[i] = filler
		}
	}
	return string(encoded[len(encoded)-Length:]), nil
}

func isAlphanumeric(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return false
}
