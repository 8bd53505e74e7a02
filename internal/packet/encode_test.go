package packet

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLiteralRoundTrip(t *testing.T) {
	wide, ok := new(big.Int).SetString("1180591620717411303429", 10) // 2^70 + 5
	if !ok {
		t.Fatalf("bad constant")
	}
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(15),
		big.NewInt(16),
		big.NewInt(2021),
		new(big.Int).SetUint64(^uint64(0)),
		wide,
	}
	for _, v := range values {
		bits, err := EncodeLiteral(5, v)
		if err != nil {
			t.Fatalf("%s: encode: %v", v, err)
		}
		res, err := Decode(bits)
		if err != nil {
			t.Fatalf("%s: decode: %v", v, err)
		}
		lit, ok := res.Root.(Literal)
		if !ok {
			t.Fatalf("%s: expected literal, got %T", v, res.Root)
		}
		if lit.Ver != 5 || lit.Value.Cmp(v) != 0 {
			t.Fatalf("round-trip mismatch: got version=%d value=%s want %s", lit.Ver, lit.Value, v)
		}
		if res.Padding.Len() != 0 {
			t.Fatalf("%s: unexpected padding %q", v, res.Padding.String())
		}
	}
}

func TestEncodeLiteralMatchesWireExample(t *testing.T) {
	bits, err := EncodeLiteral(6, big.NewInt(2021))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := bits.String(); got != "110100101111111000101" {
		t.Fatalf("unexpected bits: %s", got)
	}
}

func TestEncodeReproducesWireBits(t *testing.T) {
	cases := []struct {
		hex  string
		opts EncodeOptions
	}{
		{"38006F45291200", EncodeOptions{BitLength: true}},
		{"EE00D40C823060", EncodeOptions{}},
	}
	for _, tc := range cases {
		orig, err := ExpandHex(tc.hex)
		if err != nil {
			t.Fatalf("%s: expand: %v", tc.hex, err)
		}
		res, err := Decode(orig)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.hex, err)
		}
		enc, err := EncodeWith(res.Root, tc.opts)
		if err != nil {
			t.Fatalf("%s: encode: %v", tc.hex, err)
		}
		if want := orig.Slice(0, res.Consumed); !enc.Equal(want) {
			t.Fatalf("%s: got %s want %s", tc.hex, enc, want)
		}
	}
}

func TestEncodeDecodeTreeRoundTrip(t *testing.T) {
	inputs := []string{
		"8A004A801A8002F478",
		"620080001611562C8802118E34",
		"C0015000016115A2E0802F182340",
		"A0016C880162017C3686B18A3D4780",
		"9C0141080250320F1802104A08",
	}
	for _, in := range inputs {
		res, err := DecodeHex(in)
		if err != nil {
			t.Fatalf("%s: decode: %v", in, err)
		}
		for _, opts := range []EncodeOptions{{}, {BitLength: true}} {
			bits, err := EncodeWith(res.Root, opts)
			if err != nil {
				t.Fatalf("%s: encode: %v", in, err)
			}
			again, err := Decode(bits)
			if err != nil {
				t.Fatalf("%s: re-decode: %v", in, err)
			}
			if diff := cmp.Diff(res.Root, again.Root, bigIntComparer); diff != "" {
				t.Fatalf("%s: tree mismatch (-want +got):\n%s", in, diff)
			}
			if again.Padding.Len() != 0 {
				t.Fatalf("%s: unexpected padding %d", in, again.Padding.Len())
			}
		}
	}
}

func TestEncodeManyChildrenFallsBackToBitLength(t *testing.T) {
	args := make([]Node, 1<<countWidth)
	for i := range args {
		args[i] = NewLiteral(0, 1)
	}
	bits, err := Encode(Operator{Op: KindSum, Args: args})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if bits.At(versionWidth+kindWidth) != 0 {
		t.Fatalf("expected length type 0 for %d children", len(args))
	}
	res, err := Decode(bits)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v, err := Evaluate(res.Root)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Int64() != int64(len(args)) {
		t.Fatalf("unexpected sum: %s", v)
	}

	for i := range args {
		args[i] = NewLiteral(0, 1<<60)
	}
	if _, err := Encode(Operator{Op: KindSum, Args: args}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for oversized region, got %v", err)
	}
}

func TestEncodeRejectsInvalidTrees(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want error
	}{
		{"version overflow", NewLiteral(8, 1), ErrTooLarge},
		{"negative literal", Literal{Value: big.NewInt(-1)}, ErrMalformedInput},
		{"literal kind operator", Operator{Op: KindLiteral}, ErrInvalidKind},
		{"unknown kind", Operator{Op: Kind(12)}, ErrInvalidKind},
		{"nil child", Operator{Op: KindSum, Args: []Node{nil}}, ErrMalformedInput},
	}
	for _, tc := range cases {
		if _, err := Encode(tc.node); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
