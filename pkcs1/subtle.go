package pkcs1

import "math/bits"

// broadcastByte returns 0x00 if x is 0 and 0xFF otherwise, without
// branching on the value of x. OR-ing x with all eight of its rotations
// propagates any set bit into every position, in the same number of steps
// no matter which bits were set.
func broadcastByte(x byte) byte {
	r := x
	for i := 0; i < 8; i++ {
		x = bits.RotateLeft8(x, 1)
		r |= x
	}
	return r
}

// broadcastWord widens broadcastByte to a machine word: 0 if x is 0,
// all ones otherwise.
func broadcastWord(x byte) uint {
	b := broadcastByte(x)
	var r uint
	for i := 0; i < bits.UintSize/8; i++ {
		r |= uint(b) << (i * 8)
	}
	return r
}

// selectBytes writes a into out if choice is 0 and b otherwise. Every
// position is written on every call; no branch depends on choice or on
// the contents of a and b.
func selectBytes(out, a, b []byte, choice byte) {
	maskB := broadcastByte(choice)
	maskA := ^maskB
	for i := range out {
		out[i] = a[i]&maskA | b[i]&maskB
		// A broadcast byte is invariant under rotation: rotating both
		// masks each iteration leaves their value unchanged but keeps
		// the compiler from hoisting them out of the loop as constants
		// and turning the blend into a branch.
		maskA = bits.RotateLeft8(maskA, 1)
		maskB = bits.RotateLeft8(maskB, 1)
	}
}

// selectWord returns a if choice is 0 and b otherwise, by running
// selectBytes over the little-endian serializations of the two words.
// The byte order cancels out on reassembly.
func selectWord(a, b uint, choice byte) uint {
	const n = bits.UintSize / 8
	var ab, bb, out [n]byte
	for i := 0; i < n; i++ {
		ab[i] = byte(a >> (i * 8))
		bb[i] = byte(b >> (i * 8))
	}
	selectBytes(out[:], ab[:], bb[:], choice)
	var r uint
	for i := 0; i < n; i++ {
		r |= uint(out[i]) << (i * 8)
	}
	return r
}

// compareMasked returns 0 iff a and b are equal at every position where
// eqMask is 0xFF and differ at every position where neqMask is 0xFF.
// Positions where both masks are 0x00 are unconstrained. The status byte
// is OR-accumulated over the full length; there is no early exit.
func compareMasked(a, b, eqMask, neqMask []byte) byte {
	var r byte
	for i := range a {
		c := broadcastByte(a[i] ^ b[i])
		r |= c & eqMask[i]
		r |= ^c & neqMask[i]
	}
	return r
}

// findByte returns the index of the first occurrence of c in in, or
// len(in) if c does not occur. The input is copied into a scratch buffer
// with c appended at index len(in), so the scan always has a match to
// find and always walks the full length; the index is recorded with a
// masked OR rather than a guarded assignment.
func findByte(in []byte, c byte) uint {
	scratch := make([]byte, len(in)+1)
	copy(scratch, in)
	scratch[len(in)] = c

	var idx, seen uint
	for i := range scratch {
		hit := ^seen & ^broadcastWord(scratch[i]^c)
		idx |= uint(i) & hit
		seen |= hit
	}
	return idx
}
