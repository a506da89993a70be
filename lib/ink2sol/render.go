package ink2sol

import (
	"io"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/jshufro/xvm-bridge/lib/errs"
	"github.com/jshufro/xvm-bridge/lib/ink"
	"github.com/jshufro/xvm-bridge/lib/tmpl"
)

// The contract name used when the metadata does not carry one
const defaultContractName = "InkContract"

// Contract is the root value of the module template. The project is handed
// through untouched; types are mapped as the template asks for them.
type Contract struct {
	Name    string
	Project *ink.Project
}

func NewContract(md *ink.Metadata) *Contract {
	name := md.Contract.Name
	if name == "" {
		name = defaultContractName
	}
	return &Contract{Name: name, Project: md.Project}
}

// Funcs returns the formatters of the Solidity module template bound to mapper.
func Funcs(mapper *Mapper) template.FuncMap {
	funcs := tmpl.Funcs(tmpl.SolidityPathSeparator)

	funcs["type"] = func(value interface{}, slot ...string) (string, error) {
		if len(slot) != 1 {
			return "", errs.Templatef("type formatter must come with exactly one slot argument, got %d", len(slot))
		}
		id, err := typeID(value)
		if err != nil {
			return "", err
		}
		ty, err := mapper.Map(id)
		if err != nil {
			return "", err
		}
		return ty.Slot(slot[0])
	}

	funcs["mapped"] = func(value interface{}) (bool, error) {
		id, err := typeID(value)
		if err != nil {
			return false, err
		}
		return mapper.Registry().HasMapping(id), nil
	}

	funcs["unprefixed"] = func(value interface{}) (string, error) {
		s, ok := value.(string)
		if !ok {
			return "", errs.Templatef("string value expected, got %T", value)
		}
		return strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), nil
	}

	return funcs
}

func typeID(value interface{}) (uint32, error) {
	switch id := value.(type) {
	case uint32:
		return id, nil
	case int:
		if id >= 0 && uint64(id) <= uint64(^uint32(0)) {
			return uint32(id), nil
		}
	case uint64:
		if id <= uint64(^uint32(0)) {
			return uint32(id), nil
		}
	case int64:
		if id >= 0 && id <= int64(^uint32(0)) {
			return uint32(id), nil
		}
	}
	return 0, errs.Templatef("invalid type id %v", value)
}

// Renderer renders ink! metadata as a Solidity wrapper.
type Renderer struct {
	Registry *TypeRegistry
	logger   *zap.Logger
}

func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{Registry: NewTypeRegistry(), logger: logger}
}

func (r *Renderer) Render(md *ink.Metadata) (string, error) {
	mapper, err := NewMapper(md.Project, r.Registry, r.logger)
	if err != nil {
		return "", err
	}

	set, err := tmpl.Load(Funcs(mapper), "solidity-module")
	if err != nil {
		return "", err
	}

	contract := NewContract(md)
	r.logger.Info("rendering solidity wrapper",
		zap.String("contract", contract.Name),
		zap.Int("messages", len(contract.Project.Spec.Messages)),
		zap.Int("types", len(contract.Project.Types)))

	out, err := tmpl.Render(set, "solidity-module", contract)
	if err != nil {
		return "", err
	}

	r.logger.Debug("rendered solidity wrapper", zap.Int("mapped_types", r.Registry.Len()))
	return tmpl.Finish(out), nil
}

// Render reads ink! metadata and renders the Solidity wrapper for it.
func Render(r io.Reader, logger *zap.Logger) (string, error) {
	md, err := ink.ReadMetadata(r)
	if err != nil {
		return "", err
	}
	return NewRenderer(logger).Render(md)
}
