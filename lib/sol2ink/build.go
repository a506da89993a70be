package sol2ink

import (
	"go.uber.org/zap"

	"github.com/jshufro/xvm-bridge/lib/evm"
)

// BuildModule assembles the module for an ABI. evmID is not interpreted.
func BuildModule(name string, evmID string, items []evm.Item, logger *zap.Logger) (*Module, error) {
	functions, overloaded, err := Normalise(items, logger)
	if err != nil {
		return nil, err
	}

	return &Module{
		Name:                name,
		EvmID:               evmID,
		Functions:           functions,
		OverloadedFunctions: overloaded,
	}, nil
}
