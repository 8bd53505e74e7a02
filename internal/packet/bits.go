package packet

import (
	"fmt"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// Bits is an immutable, packed bit string. Bit 0 is the most significant
// bit of the first byte.
type Bits struct {
	buf []byte
	n   int
}

// ExpandHex expands each uppercase hex digit of s into four bits, most
// significant first, preserving leading zeros.
func ExpandHex(s string) (Bits, error) {
	buf := make([]byte, (len(s)+1)/2)
	for i := 0; i < len(s); i++ {
		v, ok := hexNibble(s[i])
		if !ok {
			return Bits{}, fmt.Errorf("%w: non-hex character %q at offset %d", ErrMalformedInput, s[i], i)
		}
		if i%2 == 0 {
			buf[i/2] = v << 4
		} else {
			buf[i/2] |= v
		}
	}
	return Bits{buf: buf, n: 4 * len(s)}, nil
}

// ParseBits builds Bits from a string of '0' and '1' characters.
func ParseBits(s string) (Bits, error) {
	var w bitWriter
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			w.writeBit(0)
		case '1':
			w.writeBit(1)
		default:
			return Bits{}, fmt.Errorf("%w: non-binary character %q at offset %d", ErrMalformedInput, s[i], i)
		}
	}
	return w.bits(), nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func (b Bits) Len() int {
	return b.n
}

// At returns bit i as 0 or 1. It panics when i is out of range.
func (b Bits) At(i int) uint8 {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("packet: bit index %d out of range [0,%d)", i, b.n))
	}
	return (b.buf[i/8] >> (7 - uint(i%8))) & 1
}

// Slice returns a copy of bits [i, j).
func (b Bits) Slice(i, j int) Bits {
	if i < 0 || j < i || j > b.n {
		panic(fmt.Sprintf("packet: slice [%d:%d] out of range [0,%d]", i, j, b.n))
	}
	var w bitWriter
	for k := i; k < j; k++ {
		w.writeBit(b.At(k))
	}
	return w.bits()
}

func (b Bits) Equal(other Bits) bool {
	if b.n != other.n {
		return false
	}
	for i := 0; i < b.n; i++ {
		if b.At(i) != other.At(i) {
			return false
		}
	}
	return true
}

func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		sb.WriteByte('0' + b.At(i))
	}
	return sb.String()
}

// Hex packs the bits back into uppercase hex. A final partial nibble is
// zero-padded on the right.
func (b Bits) Hex() string {
	out := make([]byte, 0, (b.n+3)/4)
	for i := 0; i < b.n; i += 4 {
		var v byte
		for j := i; j < i+4; j++ {
			v <<= 1
			if j < b.n {
				v |= b.At(j)
			}
		}
		out = append(out, hexDigits[v])
	}
	return string(out)
}

type bitWriter struct {
	buf []byte
	n   int
}

func (w *bitWriter) writeBit(v uint8) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if v != 0 {
		w.buf[w.n/8] |= 0x80 >> uint(w.n%8)
	}
	w.n++
}

func (w *bitWriter) writeUint(v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		w.writeBit(uint8(v>>uint(i)) & 1)
	}
}

func (w *bitWriter) writeBits(b Bits) {
	for i := 0; i < b.n; i++ {
		w.writeBit(b.At(i))
	}
}

func (w *bitWriter) bits() Bits {
	return Bits{buf: w.buf, n: w.n}
}
