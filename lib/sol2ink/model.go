// Package sol2ink turns an EVM contract ABI into an ink! module that calls the
// contract over XVM.
package sol2ink

import "github.com/jshufro/xvm-bridge/lib/evm"

// In-memory representation of a single function parameter
type Parameter struct {
	Name    string `json:"name"`     // Rust identifier, snake case
	EvmType string `json:"evm_type"` // As written in the ABI
	InkType string `json:"ink_type"`

	// Members of tuple types, needed to translate EvmType again
	Components []evm.Param `json:"-"`
}

// In-memory representation of a function whose name is unique in the ABI
type Function struct {
	Name         string      `json:"name"`
	Inputs       []Parameter `json:"inputs"`
	Output       string      `json:"output"`
	Selector     string      `json:"selector"`
	SelectorHash string      `json:"selector_hash"`
}

// One signature of an overloaded function
type Variant struct {
	Inputs       []Parameter `json:"inputs"`
	Output       string      `json:"output"`
	Selector     string      `json:"selector"`
	SelectorHash string      `json:"selector_hash"`
}

// All the functions of the ABI sharing a name, in ABI order
type OverloadedFunction struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// In-memory representation of the ink! module to generate
type Module struct {
	Name                string               `json:"module_name"`
	EvmID               string               `json:"evm_id"` // Emitted verbatim
	Functions           []Function           `json:"functions"`
	OverloadedFunctions []OverloadedFunction `json:"overloaded_functions"`
}
