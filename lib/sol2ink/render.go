package sol2ink

import (
	"io"
	"text/template"

	"go.uber.org/zap"

	"github.com/jshufro/xvm-bridge/lib/errs"
	"github.com/jshufro/xvm-bridge/lib/evm"
	"github.com/jshufro/xvm-bridge/lib/tmpl"
)

// Funcs returns the formatters of the ink! module template.
func Funcs() template.FuncMap {
	funcs := tmpl.Funcs(tmpl.InkPathSeparator)

	// Accepts a raw Solidity type, or a parameter when tuple components are needed
	funcs["convert_type"] = func(value interface{}) (string, error) {
		var (
			raw        string
			components []evm.Param
		)
		switch v := value.(type) {
		case string:
			raw = v
		case Parameter:
			raw, components = v.EvmType, v.Components
		case evm.Param:
			raw, components = v.Type, v.Components
		default:
			return "", errs.Templatef("Solidity type expected, got %T", value)
		}

		converted, err := evm.TranslateType(raw, components)
		if err != nil {
			return "", errs.Templatef("unable to convert type '%s': %v", raw, err)
		}
		return converted, nil
	}

	return funcs
}

// RenderModule renders the ink! source of module.
func RenderModule(module *Module, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	set, err := tmpl.Load(Funcs(), "ink-module")
	if err != nil {
		return "", err
	}

	logger.Info("rendering ink! module", zap.String("module", module.Name))
	out, err := tmpl.Render(set, "ink-module", module)
	if err != nil {
		return "", err
	}
	return tmpl.Finish(out), nil
}

// Render reads an ABI and renders the ink! module wrapping it.
func Render(r io.Reader, name string, evmID string, logger *zap.Logger) (string, error) {
	items, err := evm.ReadAbi(r)
	if err != nil {
		return "", err
	}

	module, err := BuildModule(name, evmID, items, logger)
	if err != nil {
		return "", err
	}
	return RenderModule(module, logger)
}
