package packet

import (
	"fmt"
	"math/big"
)

// EncodeOptions selects how operator children are delimited.
type EncodeOptions struct {
	// BitLength writes every operator with length type 0 (15-bit region
	// length). By default operators are written with an 11-bit child count.
	BitLength bool
}

// Encode writes n in the packet wire format. Decode(Encode(n)) yields n
// with no padding.
func Encode(n Node) (Bits, error) {
	return EncodeWith(n, EncodeOptions{})
}

func EncodeWith(n Node, opts EncodeOptions) (Bits, error) {
	var w bitWriter
	if err := encodeNode(&w, n, opts); err != nil {
		return Bits{}, err
	}
	return w.bits(), nil
}

// EncodeLiteral writes a single literal packet.
func EncodeLiteral(version uint8, v *big.Int) (Bits, error) {
	return Encode(Literal{Ver: version, Value: v})
}

func encodeNode(w *bitWriter, n Node, opts EncodeOptions) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrMalformedInput)
	}
	if n.Version() > MaxVersion {
		return fmt.Errorf("%w: version %d exceeds %d", ErrTooLarge, n.Version(), MaxVersion)
	}
	switch n := n.(type) {
	case Literal:
		return writeLiteral(w, n.Ver, n.Value)
	case Operator:
		return writeOperator(w, n, opts)
	default:
		return fmt.Errorf("%w: unsupported node %T", ErrInvalidKind, n)
	}
}

func writeLiteral(w *bitWriter, version uint8, v *big.Int) error {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative literal %s", ErrMalformedInput, v)
	}
	groups := (v.BitLen() + groupWidth - 1) / groupWidth
	if groups == 0 {
		groups = 1
	}
	w.writeUint(uint64(version), versionWidth)
	w.writeUint(uint64(KindLiteral), kindWidth)
	var group big.Int
	mask := big.NewInt(1<<groupWidth - 1)
	for i := groups - 1; i >= 0; i-- {
		more := uint64(0)
		if i > 0 {
			more = 1
		}
		group.Rsh(v, uint(i*groupWidth))
		group.And(&group, mask)
		w.writeUint(more, 1)
		w.writeUint(group.Uint64(), groupWidth)
	}
	return nil
}

func writeOperator(w *bitWriter, op Operator, opts EncodeOptions) error {
	if op.Op == KindLiteral || !op.Op.Valid() {
		return fmt.Errorf("%w: cannot encode operator of %s", ErrInvalidKind, op.Op)
	}
	w.writeUint(uint64(op.Ver), versionWidth)
	w.writeUint(uint64(op.Op), kindWidth)

	if !opts.BitLength && len(op.Args) < 1<<countWidth {
		w.writeUint(1, 1)
		w.writeUint(uint64(len(op.Args)), countWidth)
		for _, child := range op.Args {
			if err := encodeNode(w, child, opts); err != nil {
				return err
			}
		}
		return nil
	}

	var body bitWriter
	for _, child := range op.Args {
		if err := encodeNode(&body, child, opts); err != nil {
			return err
		}
	}
	if body.n >= 1<<bitLengthWidth {
		return fmt.Errorf("%w: %d-bit sub-packet region exceeds %d bits", ErrTooLarge, body.n, 1<<bitLengthWidth-1)
	}
	w.writeUint(0, 1)
	w.writeUint(uint64(body.n), bitLengthWidth)
	w.writeBits(body.bits())
	return nil
}
