package sol2ink

import (
	"fmt"
	"unicode"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jshufro/xvm-bridge/lib/errs"
	"github.com/jshufro/xvm-bridge/lib/evm"
	"github.com/jshufro/xvm-bridge/lib/tmpl"
)

// The ink! return type of every generated message
const outputType = "bool"

type filter func(evm.Item) bool

func isFunction(item evm.Item) bool {
	return item.Kind == evm.KindFunction
}

func isNotView(item evm.Item) bool {
	return item.StateMutability != evm.MutabilityView
}

// Messages only report whether the EVM call succeeded, so functions returning
// anything but bools are skipped.
func onlyBoolOutputs(item evm.Item) bool {
	for _, output := range item.Outputs {
		if output.Type != "bool" {
			return false
		}
	}
	return true
}

var filters = []filter{isFunction, isNotView, onlyBoolOutputs}

func keep(item evm.Item) bool {
	for _, f := range filters {
		if !f(item) {
			return false
		}
	}
	return true
}

// Normalise picks the callable functions out of an ABI and computes their
// selectors. Functions sharing a name are grouped as overloads, in ABI
// order, and groups are in order of first appearance.
func Normalise(items []evm.Item, logger *zap.Logger) ([]Function, []OverloadedFunction, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Overloading is a property of the whole set, so names are counted first
	counts := make(map[string]int)
	for _, item := range items {
		if keep(item) {
			counts[item.Name]++
		}
	}

	functions := make([]Function, 0, len(counts))
	overloaded := make([]OverloadedFunction, 0)
	groups := make(map[string]int)
	selectors := make(map[string]struct{})
	methods := newMethodNames()

	for index, item := range items {
		if !keep(item) {
			logger.Debug("skipping ABI item", zap.Int("index", index), zap.String("type", item.Kind), zap.String("name", item.Name))
			continue
		}

		if err := evm.CheckName(item.Name); err != nil {
			logger.Debug("invalid function name", zap.Int("index", index), zap.Error(err))
			return nil, nil, errors.WithStack(&errs.MalformedAbiError{Index: index, Field: "name"})
		}
		selector := evm.Selector(item.Name, item.Inputs)
		if _, ok := selectors[selector]; ok {
			return nil, nil, errors.WithStack(&errs.MalformedAbiError{Index: index, Field: "inputs"})
		}
		selectors[selector] = struct{}{}

		inputs, err := parameters(item)
		if err != nil {
			return nil, nil, err
		}
		if canonical, err := evm.CanonicalSelector(item); err == nil && canonical != selector {
			logger.Warn("selector is hashed as written, not in canonical form",
				zap.Int("index", index), zap.String("selector", selector), zap.String("canonical", canonical))
		}
		hash := evm.SelectorHash(selector)

		if counts[item.Name] == 1 {
			if err := methods.claim(tmpl.Snake(item.Name), index); err != nil {
				return nil, nil, err
			}
			functions = append(functions, Function{
				Name:         item.Name,
				Inputs:       inputs,
				Output:       outputType,
				Selector:     selector,
				SelectorHash: hash,
			})
			continue
		}

		group, ok := groups[item.Name]
		if !ok {
			group = len(overloaded)
			groups[item.Name] = group
			overloaded = append(overloaded, OverloadedFunction{Name: item.Name})
		}
		method := fmt.Sprintf("%s_%d", tmpl.Snake(item.Name), len(overloaded[group].Variants))
		if err := methods.claim(method, index); err != nil {
			return nil, nil, err
		}
		overloaded[group].Variants = append(overloaded[group].Variants, Variant{
			Inputs:       inputs,
			Output:       outputType,
			Selector:     selector,
			SelectorHash: hash,
		})
	}

	logger.Info("normalised ABI",
		zap.Int("items", len(items)),
		zap.Int("functions", len(functions)),
		zap.Int("overloaded_functions", len(overloaded)))
	return functions, overloaded, nil
}

// Methods the generated contract defines besides the messages
var reservedMethods = []string{"new", "encode_input", "call_evm"}

// methodNames tracks the ink! method names already taken. Selector constants
// derive from the same names, so they cannot clash either.
type methodNames map[string]struct{}

func newMethodNames() methodNames {
	names := make(methodNames)
	for _, name := range reservedMethods {
		names[name] = struct{}{}
	}
	return names
}

func (n methodNames) claim(name string, index int) error {
	if _, ok := n[name]; ok || name == "" || rustKeywords[name] {
		return errors.WithStack(&errs.MalformedAbiError{Index: index, Field: "name"})
	}
	n[name] = struct{}{}
	return nil
}

func parameters(item evm.Item) ([]Parameter, error) {
	out := make([]Parameter, len(item.Inputs))
	used := make(map[string]bool, len(item.Inputs))

	for i, input := range item.Inputs {
		inkType, err := evm.TranslateType(input.Type, input.Components)
		if err != nil {
			return nil, errors.WithStack(&errs.AbiTypeParseError{Raw: input.Type, Item: item.Name, Index: i, Cause: err})
		}

		name := abi.ResolveNameConflict(identifier(input.Name, i), func(s string) bool { return used[s] })
		used[name] = true

		out[i] = Parameter{
			Name:       name,
			EvmType:    input.Type,
			InkType:    inkType,
			Components: input.Components,
		}
	}
	return out, nil
}

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true, "continue": true,
	"crate": true, "dyn": true, "else": true, "enum": true, "extern": true, "false": true,
	"fn": true, "for": true, "if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "static": true, "struct": true, "super": true,
	"trait": true, "true": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "try": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true,
}

// identifier turns an ABI parameter name into a Rust argument name. Unnamed
// parameters are called after their position.
func identifier(name string, index int) string {
	ident := tmpl.Snake(name)
	switch {
	case ident == "":
		return fmt.Sprintf("arg%d", index)
	case unicode.IsDigit([]rune(ident)[0]):
		return "arg" + ident
	case rustKeywords[ident]:
		return ident + "_"
	}
	return ident
}
