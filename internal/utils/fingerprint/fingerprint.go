// Package fingerprint turns strings into short filesystem-safe identifiers.
// The hash is not cryptographic: callers that use it as a key must store
// the original string next to whatever they cache and compare it on load.
package fingerprint

import "github.com/go-faster/city"

// Width is the length of every rendered fingerprint. 62^11 > 2^64.
const Width = 11

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Hash returns the 64-bit CityHash of data.
func Hash(data []byte) uint64 {
	return city.Hash64(data)
}

// Encode renders v as a fixed-width base-62 string, most significant digit
// first, zero padded.
func Encode(v uint64) string {
	var buf [Width]byte
	for i := Width - 1; i >= 0; i-- {
		buf[i] = alphabet[v%62]
		v /= 62
	}
	return string(buf[:])
}

// String fingerprints s and renders the result.
func String(s string) string {
	return Encode(Hash([]byte(s)))
}
