package packet

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Kind selects the semantics of a node. It occupies a 3-bit header field.
type Kind uint8

const (
	KindSum Kind = iota
	KindProduct
	KindMinimum
	KindMaximum
	KindLiteral
	KindGreater
	KindLess
	KindEqual
)

// MaxVersion is the largest version representable in the 3-bit header field.
const MaxVersion = 1<<versionWidth - 1

var kindNames = [...]string{
	KindSum:     "sum",
	KindProduct: "product",
	KindMinimum: "minimum",
	KindMaximum: "maximum",
	KindLiteral: "literal",
	KindGreater: "greater",
	KindLess:    "less",
	KindEqual:   "equal",
}

func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind accepts a kind name ("sum", "equal", ...) or its numeric id.
func ParseKind(raw string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || !Kind(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, raw)
	}
	return Kind(n), nil
}

// Node is one decoded packet. It is either a Literal or an Operator.
type Node interface {
	Version() uint8
	Kind() Kind
	Children() []Node
	node()
}

// Literal is a kind 4 packet carrying an unbounded non-negative integer.
type Literal struct {
	Ver   uint8
	Value *big.Int
}

// NewLiteral builds a literal from a machine-sized value.
func NewLiteral(version uint8, v uint64) Literal {
	return Literal{Ver: version, Value: new(big.Int).SetUint64(v)}
}

func (l Literal) Version() uint8 { return l.Ver }
func (Literal) Kind() Kind { return KindLiteral }
func (Literal) Children() []Node { return nil }
func (Literal) node() {}

// Operator is any non-literal packet; Op decides how Args combine.
type Operator struct {
	Ver  uint8
	Op   Kind
	Args []Node
}

func (o Operator) Version() uint8 { return o.Ver }
func (o Operator) Kind() Kind { return o.Op }
func (o Operator) Children() []Node { return o.Args }
func (Operator) node() {}
