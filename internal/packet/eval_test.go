package packet

import (
	"errors"
	"math/big"
	"testing"
)

func TestVersionSum(t *testing.T) {
	cases := []struct {
		hex  string
		want uint64
	}{
		{"8A004A801A8002F478", 16},
		{"620080001611562C8802118E34", 12},
		{"C0015000016115A2E0802F182340", 23},
		{"A0016C880162017C3686B18A3D4780", 31},
	}
	for _, tc := range cases {
		res, err := DecodeHex(tc.hex)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.hex, err)
		}
		if got := VersionSum(res.Root); got != tc.want {
			t.Fatalf("%s: version sum got %d want %d", tc.hex, got, tc.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		hex  string
		want int64
	}{
		{"C200B40A82", 3},
		{"04005AC33890", 54},
		{"880086C3E88112", 7},
		{"CE00C43D881120", 9},
		{"D8005AC2A8F0", 1},
		{"F600BC2D8F", 0},
		{"9C005AC2F8F0", 0},
		{"9C0141080250320F1802104A08", 1},
	}
	for _, tc := range cases {
		res, err := DecodeHex(tc.hex)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.hex, err)
		}
		got, err := Evaluate(res.Root)
		if err != nil {
			t.Fatalf("%s: evaluate: %v", tc.hex, err)
		}
		if got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Fatalf("%s: got %s want %d", tc.hex, got, tc.want)
		}
	}
}

func TestVersionSumUnaffectedByEvaluate(t *testing.T) {
	res, err := DecodeHex("9C0141080250320F1802104A08")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	before := VersionSum(res.Root)
	if _, err := Evaluate(res.Root); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if after := VersionSum(res.Root); after != before {
		t.Fatalf("version sum changed: before=%d after=%d", before, after)
	}
}

func TestEvaluateDoesNotAliasLiteral(t *testing.T) {
	lit := NewLiteral(0, 5)
	v, err := Evaluate(lit)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	v.SetInt64(99)
	if lit.Value.Int64() != 5 {
		t.Fatalf("literal mutated through result: %s", lit.Value)
	}
}

func TestEvaluateProductBeyond64Bits(t *testing.T) {
	big40 := new(big.Int).Lsh(big.NewInt(1), 40)
	n := Operator{Op: KindProduct, Args: []Node{
		Literal{Value: big40},
		Literal{Value: big40},
		NewLiteral(0, 3),
	}}
	got, err := Evaluate(n)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := new(big.Int).Lsh(big.NewInt(3), 80)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestEvaluateEmptyOperators(t *testing.T) {
	sum, err := Evaluate(Operator{Op: KindSum})
	if err != nil || sum.Sign() != 0 {
		t.Fatalf("empty sum: got %v err %v", sum, err)
	}
	prod, err := Evaluate(Operator{Op: KindProduct})
	if err != nil || prod.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("empty product: got %v err %v", prod, err)
	}
	for _, k := range []Kind{KindMinimum, KindMaximum} {
		if _, err := Evaluate(Operator{Op: k}); !errors.Is(err, ErrArity) {
			t.Fatalf("empty %s: expected ErrArity, got %v", k, err)
		}
	}
}

func TestEvaluateComparisonArity(t *testing.T) {
	for _, k := range []Kind{KindGreater, KindLess, KindEqual} {
		one := Operator{Op: k, Args: []Node{NewLiteral(0, 1)}}
		if _, err := Evaluate(one); !errors.Is(err, ErrArity) {
			t.Fatalf("%s with 1 child: expected ErrArity, got %v", k, err)
		}
		three := Operator{Op: k, Args: []Node{NewLiteral(0, 1), NewLiteral(0, 2), NewLiteral(0, 3)}}
		if _, err := Evaluate(three); !errors.Is(err, ErrArity) {
			t.Fatalf("%s with 3 children: expected ErrArity, got %v", k, err)
		}
	}
}

func TestEvaluateArityErrorInNestedChild(t *testing.T) {
	n := Operator{Op: KindSum, Args: []Node{
		NewLiteral(0, 1),
		Operator{Op: KindEqual, Args: []Node{NewLiteral(0, 1)}},
	}}
	if _, err := Evaluate(n); !errors.Is(err, ErrArity) {
		t.Fatalf("expected ErrArity, got %v", err)
	}
}

func TestEvaluateInvalidKind(t *testing.T) {
	for _, n := range []Node{
		Operator{Op: Kind(8), Args: []Node{NewLiteral(0, 1)}},
		Operator{Op: KindLiteral, Args: []Node{NewLiteral(0, 1)}},
	} {
		if _, err := Evaluate(n); !errors.Is(err, ErrInvalidKind) {
			t.Fatalf("%s: expected ErrInvalidKind, got %v", n.Kind(), err)
		}
	}
}

func TestEvaluateNilNode(t *testing.T) {
	if _, err := Evaluate(nil); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"sum":     KindSum,
		" Equal ": KindEqual,
		"4":       KindLiteral,
		"minimum": KindMinimum,
		"7":       KindEqual,
	} {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %s want %s", in, got, want)
		}
	}
	for _, in := range []string{"", "8", "divide", "-1"} {
		if _, err := ParseKind(in); !errors.Is(err, ErrInvalidKind) {
			t.Fatalf("%q: expected ErrInvalidKind, got %v", in, err)
		}
	}
	if Kind(9).String() != "kind(9)" {
		t.Fatalf("unexpected name: %s", Kind(9))
	}
}
