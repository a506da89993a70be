package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Selector builds the canonical "name(t1,...,tn)" form from the raw ABI type
// strings. Types are never normalised; the string is the hash pre-image.
func Selector(name string, inputs []Param) string {
	types := make([]string, len(inputs))
	for i, input := range inputs {
		types[i] = input.Type
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

// SelectorHash returns the first 4 bytes of Keccak-256(selector) as 8 lowercase hex digits.
func SelectorHash(selector string) string {
	return common.Bytes2Hex(crypto.Keccak256([]byte(selector))[:4])
}

// CheckName makes sure name can head a selector. Only the identifier is
// checked; parameter types are validated when they are translated.
func CheckName(name string) error {
	parsed, err := abi.ParseSelector(name + "()")
	if err != nil {
		return errors.Wrapf(err, "invalid function name '%s'", name)
	}
	if parsed.Name != name {
		return errors.Errorf("invalid function name '%s'", name)
	}
	return nil
}

// CanonicalSelector is the signature go-ethereum derives for a function item,
// with every type spelled canonically. Tuples become parenthesised lists.
func CanonicalSelector(item Item) (string, error) {
	inputs := make(abi.Arguments, len(item.Inputs))
	for i, input := range item.Inputs {
		t, err := ParseType(input.Type, input.Components)
		if err != nil {
			return "", err
		}
		inputs[i] = abi.Argument{Name: input.Name, Type: t}
	}

	method := abi.NewMethod(item.Name, item.Name, abi.Function, item.StateMutability,
		item.StateMutability == MutabilityView || item.StateMutability == MutabilityPure,
		item.StateMutability == MutabilityPayable, inputs, nil)
	return method.Sig, nil
}
