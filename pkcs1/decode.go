// Package pkcs1 implements constant-time decoding of the PKCS #1 v1.5
// encryption padding, the step performed after raw RSA decryption.
//
// Observable success or failure of padding validation is enough for an
// attacker to recover the plaintext of other messages encrypted under the
// same key (Bleichenbacher's attack), so Decode never branches on the
// decrypted bytes: running time and memory access pattern depend only on
// the lengths of its inputs, and invalid padding is disguised as data
// rather than reported as an error.
package pkcs1

import (
	"errors"
	"math/bits"
)

var (
	errMissingBuffer   = errors.New("pkcs1: nil input or output buffer")
	errMessageTooShort = errors.New("pkcs1: encoded message shorter than minimum padding")
	errSentinelTooLong = errors.New("pkcs1: sentinel longer than encoded message")
	errOutputSize      = errors.New("pkcs1: output length does not match encoded message")
)

// Decode validates em as a PKCS #1 v1.5 encoded message
// (0x00 0x02 PS 0x00 M, with PS at least eight nonzero bytes) and unpads
// it in constant time.
//
// em is the raw RSA decryption output, sized to the modulus; output must
// have the same length and is overwritten in full on every call: with em
// itself when the padding is valid, and with sentinel, right-aligned over
// leading zeros, otherwise. The returned count is the number of leading
// bytes of output the caller must skip to reach the message or the
// sentinel.
//
// Invalid padding is not an error. Valid and invalid messages of the same
// length follow the identical sequence of operations and differ only in
// the bytes written and the count returned, so a caller can tell them
// apart only by knowing the sentinel value. The error return covers
// precondition violations alone; none of those depend on secret data and
// they may fail fast.
func Decode(em, sentinel, output []byte) (int, error) {
	switch {
	case em == nil || sentinel == nil || output == nil:
		return 0, errMissingBuffer
	case len(em) < 10:
		return 0, errMessageTooShort
	case len(sentinel) > len(em):
		return 0, errSentinelTooLong
	case len(output) != len(em):
		return 0, errOutputSize
	}

	padded := make([]byte, len(em))
	copy(padded[len(em)-len(sentinel):], sentinel)

	// The first ten bytes must be 00 02 followed by eight nonzero bytes
	// of padding.
	match := compareMasked(
		em[:10],
		[]byte{0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		[]byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		[]byte{0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	)

	// pos is the index of the first zero byte at or after the minimum
	// padding. It is len(em)-1 when the message is empty and len(em)
	// when the separator is missing.
	pos := findByte(em[10:], 0) + 10

	// selector is 0 iff the prefix matched and a separator was found.
	// pos == len(em) is detected by folding the XOR of the two words
	// into one byte, so no comparison branches on the search result.
	d := pos ^ uint(len(em))
	var x byte
	for i := 0; i < bits.UintSize/8; i++ {
		x |= byte(d >> (i * 8))
	}
	selector := match | ^broadcastByte(x)

	selectBytes(output, em, padded, selector)

	skip := selectWord(pos+1, uint(len(em)-len(sentinel)), selector)
	return int(skip), nil
}
