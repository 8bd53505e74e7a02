// Package tree converts decoded packets to and from a YAML document form.
package tree

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/danmuck/packetctl/internal/packet"
	"gopkg.in/yaml.v3"
)

// Doc is the document shape of one packet. Value is a decimal string so
// literals wider than 64 bits survive a round trip.
type Doc struct {
	Version  uint8  `yaml:"version"`
	Kind     string `yaml:"kind"`
	Value    string `yaml:"value,omitempty"`
	Children []Doc  `yaml:"children,omitempty"`
}

// FromNode renders n and its children as a Doc. n must not be nil.
func FromNode(n packet.Node) Doc {
	doc := Doc{Version: n.Version(), Kind: n.Kind().String()}
	if lit, ok := n.(packet.Literal); ok {
		if lit.Value == nil {
			doc.Value = "0"
		} else {
			doc.Value = lit.Value.String()
		}
		return doc
	}
	for _, child := range n.Children() {
		doc.Children = append(doc.Children, FromNode(child))
	}
	return doc
}

// Node validates d and builds the packet tree it describes.
func (d Doc) Node() (packet.Node, error) {
	if d.Version > packet.MaxVersion {
		return nil, fmt.Errorf("%w: version %d exceeds %d", packet.ErrMalformedInput, d.Version, packet.MaxVersion)
	}
	kind, err := packet.ParseKind(d.Kind)
	if err != nil {
		return nil, err
	}
	if kind == packet.KindLiteral {
		if len(d.Children) > 0 {
			return nil, fmt.Errorf("%w: literal with %d children", packet.ErrMalformedInput, len(d.Children))
		}
		v, ok := new(big.Int).SetString(strings.TrimSpace(d.Value), 10)
		if !ok || v.Sign() < 0 {
			return nil, fmt.Errorf("%w: literal value %q", packet.ErrMalformedInput, d.Value)
		}
		return packet.Literal{Ver: d.Version, Value: v}, nil
	}
	if d.Value != "" {
		return nil, fmt.Errorf("%w: %s operator carries a value", packet.ErrMalformedInput, kind)
	}
	op := packet.Operator{Ver: d.Version, Op: kind, Args: make([]packet.Node, 0, len(d.Children))}
	for i, child := range d.Children {
		n, err := child.Node()
		if err != nil {
			return nil, fmt.Errorf("child[%d]: %w", i, err)
		}
		op.Args = append(op.Args, n)
	}
	return op, nil
}

// Marshal encodes the tree rooted at n as YAML.
func Marshal(n packet.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", packet.ErrMalformedInput)
	}
	return yaml.Marshal(FromNode(n))
}

// Unmarshal parses a YAML tree and validates it into packet nodes.
func Unmarshal(data []byte) (packet.Node, error) {
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", packet.ErrMalformedInput, err)
	}
	return doc.Node()
}
