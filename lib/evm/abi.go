// Package evm reads EVM contract ABI documents and translates Solidity types
// into their ink! equivalents.
package evm

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/jshufro/xvm-bridge/lib/errs"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Item kinds
const (
	KindFunction    = "function"
	KindConstructor = "constructor"
	KindEvent       = "event"
	KindError       = "error"
	KindFallback    = "fallback"
	KindReceive     = "receive"
)

// State mutabilities
const (
	MutabilityPure       = "pure"
	MutabilityView       = "view"
	MutabilityNonPayable = "nonpayable"
	MutabilityPayable    = "payable"
)

// In-memory representation of a single function input or output
type Param struct {
	Name string
	Type string // Exactly as written in the ABI, used verbatim in selectors

	// Only set for tuple types
	Components []Param
}

// In-memory representation of a single ABI entry
type Item struct {
	Kind            string
	Name            string
	StateMutability string
	Inputs          []Param
	Outputs         []Param
}

type rawFields map[string]jsoniter.RawMessage

// ReadAbi decodes a JSON ABI array. Items are returned in source order.
func ReadAbi(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(&errs.ReadInputError{Cause: err})
	}
	return ParseAbi(data)
}

// ParseAbi is ReadAbi over an in-memory document.
func ParseAbi(data []byte) ([]Item, error) {
	var raw []jsoniter.RawMessage
	if err := jsonCodec.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithStack(&errs.MalformedJSONError{Cause: err})
	}

	items := make([]Item, 0, len(raw))
	for index, msg := range raw {
		item, err := parseItem(index, msg)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func parseItem(index int, msg jsoniter.RawMessage) (Item, error) {
	var fields rawFields
	if err := jsonCodec.Unmarshal(msg, &fields); err != nil || fields == nil {
		return Item{}, malformed(index, "(item)")
	}

	out := Item{}

	// The Solidity ABI allows the type to be omitted for functions
	kind, ok, err := optionalString(fields, "type")
	if err != nil {
		return Item{}, malformed(index, "type")
	}
	if !ok {
		kind = KindFunction
	}
	out.Kind = kind

	name, ok, err := optionalString(fields, "name")
	if err != nil || (!ok && kind == KindFunction) {
		return Item{}, malformed(index, "name")
	}
	out.Name = name

	out.StateMutability, err = stateMutability(fields)
	if err != nil {
		return Item{}, malformed(index, "stateMutability")
	}

	strict := kind == KindFunction
	if out.Inputs, err = parseParams(index, fields, "inputs", strict, strict); err != nil {
		return Item{}, err
	}
	if out.Outputs, err = parseParams(index, fields, "outputs", false, strict); err != nil {
		return Item{}, err
	}

	return out, nil
}

// Older compilers emit constant/payable instead of stateMutability
func stateMutability(fields rawFields) (string, error) {
	mutability, ok, err := optionalString(fields, "stateMutability")
	if err != nil || ok {
		return mutability, err
	}

	var flag bool
	if msg, ok := fields["constant"]; ok {
		if err := jsonCodec.Unmarshal(msg, &flag); err != nil {
			return "", err
		}
		if flag {
			return MutabilityView, nil
		}
	}
	if msg, ok := fields["payable"]; ok {
		if err := jsonCodec.Unmarshal(msg, &flag); err != nil {
			return "", err
		}
		if flag {
			return MutabilityPayable, nil
		}
	}
	return MutabilityNonPayable, nil
}

func parseParams(index int, fields rawFields, key string, needName, needType bool) ([]Param, error) {
	msg, ok := fields[key]
	if !ok {
		return nil, nil
	}

	var list []rawFields
	if err := jsonCodec.Unmarshal(msg, &list); err != nil {
		return nil, malformed(index, key)
	}

	return parseParamList(index, list, key, needName, needType)
}

func parseParamList(index int, list []rawFields, prefix string, needName, needType bool) ([]Param, error) {
	out := make([]Param, 0, len(list))
	for i, fields := range list {
		at := fmt.Sprintf("%s[%d]", prefix, i)

		name, ok, err := optionalString(fields, "name")
		if err != nil || (!ok && needName) {
			return nil, malformed(index, at+".name")
		}

		typ, ok, err := optionalString(fields, "type")
		if err != nil || (!ok && needType) {
			return nil, malformed(index, at+".type")
		}

		p := Param{Name: name, Type: typ}
		if msg, ok := fields["components"]; ok {
			var components []rawFields
			if err := jsonCodec.Unmarshal(msg, &components); err != nil {
				return nil, malformed(index, at+".components")
			}
			// Tuple members may be unnamed, even for inputs
			p.Components, err = parseParamList(index, components, at+".components", false, needType)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func optionalString(fields rawFields, key string) (string, bool, error) {
	msg, ok := fields[key]
	if !ok {
		return "", false, nil
	}
	if string(msg) == "null" {
		return "", true, errors.Errorf("field '%s' is null", key)
	}
	var s string
	if err := jsonCodec.Unmarshal(msg, &s); err != nil {
		return "", true, err
	}
	return s, true, nil
}

func malformed(index int, field string) error {
	return errors.WithStack(&errs.MalformedAbiError{Index: index, Field: field})
}
