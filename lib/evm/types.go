package evm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// ParseType parses a Solidity type string. components supplies the members of
// tuple types as they appear in the ABI; inline tuples such as
// "(uint256,address)" or "tuple(uint256,address)[]" need no components.
func ParseType(raw string, components []Param) (abi.Type, error) {
	if strings.TrimSpace(raw) == "" {
		return abi.Type{}, errors.New("empty type")
	}
	marshaling, err := toMarshaling(raw, components)
	if err != nil {
		return abi.Type{}, err
	}
	return abi.NewType(marshaling.Type, "", marshaling.Components)
}

// toMarshaling rewrites inline tuple syntax into the components form that
// go-ethereum understands.
func toMarshaling(raw string, components []Param) (abi.ArgumentMarshaling, error) {
	raw = strings.TrimSpace(raw)
	body := strings.TrimPrefix(raw, "tuple")
	if !strings.HasPrefix(body, "(") {
		out := abi.ArgumentMarshaling{Type: raw}
		for i, c := range components {
			member, err := toMarshaling(c.Type, c.Components)
			if err != nil {
				return abi.ArgumentMarshaling{}, err
			}
			member.Name = memberName(c.Name, i)
			out.Components = append(out.Components, member)
		}
		return out, nil
	}

	end, err := closingParen(body)
	if err != nil {
		return abi.ArgumentMarshaling{}, errors.Wrapf(err, "type '%s'", raw)
	}

	out := abi.ArgumentMarshaling{Type: "tuple" + body[end+1:]}
	for i, elem := range splitTopLevel(body[1:end]) {
		member, err := toMarshaling(elem, nil)
		if err != nil {
			return abi.ArgumentMarshaling{}, err
		}
		member.Name = memberName("", i)
		out.Components = append(out.Components, member)
	}
	return out, nil
}

// go-ethereum refuses anonymous tuple members
func memberName(name string, index int) string {
	if name == "" || strings.Trim(name, "_") == "" {
		return fmt.Sprintf("f%d", index)
	}
	return name
}

func closingParen(s string) (int, error) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.New("unbalanced parentheses")
}

func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

var inkIntegers = map[int]bool{8: true, 16: true, 32: true, 64: true, 128: true}

// ConvertType writes a parsed Solidity type the way ink! code refers to it.
func ConvertType(t abi.Type) (string, error) {
	switch t.T {
	case abi.BoolTy:
		return "bool", nil
	case abi.AddressTy:
		return "H160", nil
	case abi.UintTy:
		if inkIntegers[t.Size] {
			return fmt.Sprintf("u%d", t.Size), nil
		}
		return "U256", nil
	case abi.IntTy:
		if inkIntegers[t.Size] {
			return fmt.Sprintf("i%d", t.Size), nil
		}
		return "I256", nil
	case abi.FixedBytesTy:
		return fmt.Sprintf("FixedBytes<%d>", t.Size), nil
	case abi.BytesTy:
		return "Vec<u8>", nil
	case abi.StringTy:
		return "String", nil
	case abi.SliceTy:
		elem, err := ConvertType(*t.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Vec<%s>", elem), nil
	case abi.ArrayTy:
		elem, err := ConvertType(*t.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%s; %d]", elem, t.Size), nil
	case abi.TupleTy:
		elems := make([]string, len(t.TupleElems))
		for i, e := range t.TupleElems {
			elem, err := ConvertType(*e)
			if err != nil {
				return "", err
			}
			elems[i] = elem
		}
		return "(" + strings.Join(elems, ", ") + ")", nil
	}
	return "", errors.Errorf("type '%s' has no ink! equivalent", t.String())
}

// TranslateType parses raw and converts it in one step.
func TranslateType(raw string, components []Param) (string, error) {
	t, err := ParseType(raw, components)
	if err != nil {
		return "", err
	}
	return ConvertType(t)
}
