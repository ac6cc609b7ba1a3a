package pkcs1

import (
	"bytes"
	"math/bits"
	"testing"
)

func TestBroadcastByte(t *testing.T) {
	if got := broadcastByte(0); got != 0x00 {
		t.Errorf("broadcastByte(0) = %#x, want 0", got)
	}
	for x := 1; x < 256; x++ {
		if got := broadcastByte(byte(x)); got != 0xFF {
			t.Errorf("broadcastByte(%#x) = %#x, want 0xff", x, got)
		}
	}
}

func TestBroadcastWord(t *testing.T) {
	if got := broadcastWord(0); got != 0 {
		t.Errorf("broadcastWord(0) = %#x, want 0", got)
	}
	for x := 1; x < 256; x++ {
		if got := broadcastWord(byte(x)); got != ^uint(0) {
			t.Errorf("broadcastWord(%#x) = %#x, want all ones", x, got)
		}
	}
}

func TestSelectBytes(t *testing.T) {
	a := []byte{0x00, 0x01, 0x7F, 0x80, 0xFF, 0x55}
	b := []byte{0xFF, 0xFE, 0x80, 0x7F, 0x00, 0xAA}
	out := make([]byte, len(a))

	selectBytes(out, a, b, 0)
	if !bytes.Equal(out, a) {
		t.Errorf("choice 0: got %x, want %x", out, a)
	}
	for choice := 1; choice < 256; choice++ {
		selectBytes(out, a, b, byte(choice))
		if !bytes.Equal(out, b) {
			t.Errorf("choice %#x: got %x, want %x", choice, out, b)
		}
	}
}

func TestSelectWord(t *testing.T) {
	cases := []struct {
		a, b uint
	}{
		{0, 1},
		{1, 0},
		{0x100004, 0x223344},
		{^uint(0), 0},
		{1 << (bits.UintSize - 1), 42},
	}
	for _, c := range cases {
		if got := selectWord(c.a, c.b, 0); got != c.a {
			t.Errorf("selectWord(%#x, %#x, 0) = %#x, want %#x", c.a, c.b, got, c.a)
		}
		for _, choice := range []byte{0x01, 0x40, 0x80, 0xFF} {
			if got := selectWord(c.a, c.b, choice); got != c.b {
				t.Errorf("selectWord(%#x, %#x, %#x) = %#x, want %#x", c.a, c.b, choice, got, c.b)
			}
		}
	}
}

func TestCompareMasked(t *testing.T) {
	var (
		eq   = []byte{0xFF, 0xFF}
		neq  = []byte{0xFF, 0xFF}
		none = []byte{0x00, 0x00}
	)
	cases := []struct {
		name            string
		a, b            []byte
		eqMask, neqMask []byte
		wantZero        bool
	}{
		{"equal under eq", []byte("10"), []byte("10"), eq, none, true},
		{"first differs under eq", []byte("10"), []byte("00"), eq, none, false},
		{"second differs under eq", []byte("10"), []byte("11"), eq, none, false},
		{"difference outside eq", []byte("10"), []byte("11"), []byte{0xFF, 0x00}, none, true},
		{"equal under neq", []byte("10"), []byte("10"), none, neq, false},
		{"all differ under neq", []byte("11"), []byte("00"), none, neq, true},
		{"partial neq", []byte("10"), []byte("11"), none, []byte{0x00, 0xFF}, true},
		{"mixed eq and neq", []byte("10"), []byte("11"), []byte{0xFF, 0x00}, []byte{0x00, 0xFF}, true},
		{"dont care everywhere", []byte("10"), []byte("01"), none, none, true},
	}
	for _, c := range cases {
		got := compareMasked(c.a, c.b, c.eqMask, c.neqMask)
		if (got == 0) != c.wantZero {
			t.Errorf("%s: compareMasked = %#x, wantZero=%v", c.name, got, c.wantZero)
		}
	}
}

func TestFindByte(t *testing.T) {
	in := []byte("ABCDEF")
	cases := []struct {
		c    byte
		want uint
	}{
		{'A', 0},
		{'B', 1},
		{'F', 5},
		{'G', 6},
		{0x00, 6},
	}
	for _, c := range cases {
		if got := findByte(in, c.c); got != c.want {
			t.Errorf("findByte(%q, %q) = %d, want %d", in, c.c, got, c.want)
		}
	}

	if got := findByte([]byte{0, 1, 0}, 0); got != 0 {
		t.Errorf("first of repeated matches: got %d, want 0", got)
	}
	if got := findByte(nil, 0x41); got != 0 {
		t.Errorf("empty buffer: got %d, want 0", got)
	}
}
