package packet

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	versionWidth   = 3
	kindWidth      = 3
	groupWidth     = 4
	bitLengthWidth = 15
	countWidth     = 11
)

// DefaultMaxDepth bounds operator nesting during decode.
const DefaultMaxDepth = 512

// DecodeOptions constrains decode work on untrusted input.
type DecodeOptions struct {
	// MaxDepth is the deepest nesting accepted; zero or less disables the check.
	MaxDepth int
}

func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxDepth: DefaultMaxDepth}
}

// Result is one decoded top-level packet plus the bits left after it.
type Result struct {
	Root     Node
	Consumed int
	Padding  Bits
}

// Decode reads exactly one packet from the front of bits.
func Decode(bits Bits) (Result, error) {
	return DecodeWith(bits, DefaultDecodeOptions())
}

// DecodeWith is Decode with explicit limits.
func DecodeWith(bits Bits, opts DecodeOptions) (Result, error) {
	d := decoder{bits: bits, maxDepth: opts.MaxDepth}
	root, pos, err := d.node(0, bits.Len(), 0)
	if err != nil {
		return Result{}, err
	}
	return Result{Root: root, Consumed: pos, Padding: bits.Slice(pos, bits.Len())}, nil
}

// DecodeHex expands s and decodes one packet from it.
func DecodeHex(s string) (Result, error) {
	return DecodeHexWith(s, DefaultDecodeOptions())
}

// DecodeHexWith is DecodeHex with explicit limits.
func DecodeHexWith(s string, opts DecodeOptions) (Result, error) {
	bits, err := ExpandHex(s)
	if err != nil {
		return Result{}, err
	}
	return DecodeWith(bits, opts)
}

// decoder walks an immutable bit string. Every read takes a position and an
// exclusive end and returns the position after the read.
type decoder struct {
	bits     Bits
	maxDepth int
}

func (d *decoder) readUint(pos, end, width int) (uint64, int, error) {
	if end-pos < width {
		return 0, pos, fmt.Errorf("%w: need %d bits at offset %d, have %d", ErrTruncated, width, pos, end-pos)
	}
	var v uint64
	for i := pos; i < pos+width; i++ {
		v = v<<1 | uint64(d.bits.At(i))
	}
	return v, pos + width, nil
}

func (d *decoder) node(pos, end, depth int) (Node, int, error) {
	if d.maxDepth > 0 && depth > d.maxDepth {
		return nil, pos, fmt.Errorf("%w: depth %d at offset %d exceeds %d", ErrTooDeep, depth, pos, d.maxDepth)
	}
	version, pos, err := d.readUint(pos, end, versionWidth)
	if err != nil {
		return nil, pos, err
	}
	kind, pos, err := d.readUint(pos, end, kindWidth)
	if err != nil {
		return nil, pos, err
	}
	if Kind(kind) == KindLiteral {
		value, next, err := d.literal(pos, end)
		if err != nil {
			return nil, pos, err
		}
		return Literal{Ver: uint8(version), Value: value}, next, nil
	}

	lengthType, pos, err := d.readUint(pos, end, 1)
	if err != nil {
		return nil, pos, err
	}
	op := Operator{Ver: uint8(version), Op: Kind(kind)}
	if lengthType == 0 {
		op.Args, pos, err = d.byBitLength(pos, end, depth)
	} else {
		op.Args, pos, err = d.byCount(pos, end, depth)
	}
	if err != nil {
		return nil, pos, err
	}
	return op, pos, nil
}

// literal reads 5-bit groups until one has a zero continue bit.
func (d *decoder) literal(pos, end int) (*big.Int, int, error) {
	value := new(big.Int)
	for {
		more, next, err := d.readUint(pos, end, 1)
		if err != nil {
			return nil, pos, err
		}
		group, next, err := d.readUint(next, end, groupWidth)
		if err != nil {
			return nil, pos, err
		}
		pos = next
		value.Lsh(value, groupWidth)
		value.Or(value, new(big.Int).SetUint64(group))
		if more == 0 {
			return value, pos, nil
		}
	}
}

// byBitLength decodes children until a declared region is consumed exactly.
func (d *decoder) byBitLength(pos, end, depth int) ([]Node, int, error) {
	length, pos, err := d.readUint(pos, end, bitLengthWidth)
	if err != nil {
		return nil, pos, err
	}
	if int(length) > end-pos {
		return nil, pos, fmt.Errorf("%w: sub-packet region of %d bits at offset %d, have %d", ErrTruncated, length, pos, end-pos)
	}
	regionEnd := pos + int(length)
	var children []Node
	for pos < regionEnd {
		child, next, err := d.node(pos, regionEnd, depth+1)
		if err != nil {
			if errors.Is(err, ErrTruncated) && !errors.Is(err, ErrMalformedInput) {
				return nil, pos, fmt.Errorf("%w: sub-packets overrun %d-bit region: %w", ErrMalformedInput, length, err)
			}
			return nil, pos, err
		}
		children = append(children, child)
		pos = next
	}
	return children, pos, nil
}

// byCount decodes a declared number of children from the outer stream.
func (d *decoder) byCount(pos, end, depth int) ([]Node, int, error) {
	count, pos, err := d.readUint(pos, end, countWidth)
	if err != nil {
		return nil, pos, err
	}
	children := make([]Node, 0, count)
	for i := uint64(0); i < count; i++ {
		child, next, err := d.node(pos, end, depth+1)
		if err != nil {
			return nil, pos, err
		}
		children = append(children, child)
		pos = next
	}
	return children, pos, nil
}
