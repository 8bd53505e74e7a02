package packet

import (
	"fmt"
	"math/big"
)

// VersionSum adds the version of n and of every packet beneath it.
func VersionSum(n Node) uint64 {
	if n == nil {
		return 0
	}
	sum := uint64(n.Version())
	for _, child := range n.Children() {
		sum += VersionSum(child)
	}
	return sum
}

// Evaluate computes the value of n. The result is never shared with the tree.
func Evaluate(n Node) (*big.Int, error) {
	switch n := n.(type) {
	case Literal:
		if n.Value == nil {
			return new(big.Int), nil
		}
		return new(big.Int).Set(n.Value), nil
	case Operator:
		return evalOperator(n)
	case nil:
		return nil, fmt.Errorf("%w: nil node", ErrMalformedInput)
	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrInvalidKind, n)
	}
}

func evalOperator(op Operator) (*big.Int, error) {
	if err := checkArity(op); err != nil {
		return nil, err
	}
	args := make([]*big.Int, 0, len(op.Args))
	for _, child := range op.Args {
		v, err := Evaluate(child)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	switch op.Op {
	case KindSum:
		acc := new(big.Int)
		for _, v := range args {
			acc.Add(acc, v)
		}
		return acc, nil
	case KindProduct:
		acc := big.NewInt(1)
		for _, v := range args {
			acc.Mul(acc, v)
		}
		return acc, nil
	case KindMinimum:
		acc := args[0]
		for _, v := range args[1:] {
			if v.Cmp(acc) < 0 {
				acc = v
			}
		}
		return acc, nil
	case KindMaximum:
		acc := args[0]
		for _, v := range args[1:] {
			if v.Cmp(acc) > 0 {
				acc = v
			}
		}
		return acc, nil
	case KindGreater:
		return truth(args[0].Cmp(args[1]) > 0), nil
	case KindLess:
		return truth(args[0].Cmp(args[1]) < 0), nil
	case KindEqual:
		return truth(args[0].Cmp(args[1]) == 0), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidKind, op.Op)
}

func checkArity(op Operator) error {
	switch op.Op {
	case KindSum, KindProduct:
		return nil
	case KindMinimum, KindMaximum:
		if len(op.Args) == 0 {
			return fmt.Errorf("%w: %s needs at least one child", ErrArity, op.Op)
		}
		return nil
	case KindGreater, KindLess, KindEqual:
		if len(op.Args) != 2 {
			return fmt.Errorf("%w: %s needs exactly 2 children, got %d", ErrArity, op.Op, len(op.Args))
		}
		return nil
	case KindLiteral:
		return fmt.Errorf("%w: operator node carries literal kind", ErrInvalidKind)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidKind, op.Op)
	}
}

func truth(ok bool) *big.Int {
	if ok {
		return big.NewInt(1)
	}
	return new(big.Int)
}
