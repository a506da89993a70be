package ink2sol

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jshufro/xvm-bridge/lib/errs"
	"github.com/jshufro/xvm-bridge/lib/ink"
	"github.com/jshufro/xvm-bridge/lib/tmpl"
)

// MemoryModifier is the data location of structs, strings and arrays in parameter lists.
const MemoryModifier = "memory"

var primitives = map[ink.Primitive]struct {
	reference string
	width     int
}{
	ink.Bool: {"bool", 1},
	ink.Str:  {"string", 0},
	ink.U8:   {"uint8", 1},
	ink.U16:  {"uint16", 2},
	ink.U32:  {"uint32", 4},
	ink.U64:  {"uint64", 8},
	ink.U128: {"uint128", 16},
	ink.U256: {"uint256", 32},
	ink.I8:   {"int8", 1},
	ink.I16:  {"int16", 2},
	ink.I32:  {"int32", 4},
	ink.I64:  {"int64", 8},
	ink.I128: {"int128", 16},
	ink.I256: {"int256", 32},
}

// Views handed to the type sub-templates

type structField struct {
	Name string
	Type string
}

type structView struct {
	Name   string
	Path   []string
	Param  string
	Fields []structField
}

type enumView struct {
	Name     string
	Path     []string
	Variants []string
}

type codecView struct {
	Param     string
	Primitive string
	Width     int
	Elem      string
	Len       uint32
	Signed    bool
}

// Mapper translates ink! types into Solidity, caching every result in a TypeRegistry.
type Mapper struct {
	project   *ink.Project
	registry  *TypeRegistry
	templates *template.Template
	logger    *zap.Logger
}

func NewMapper(project *ink.Project, registry *TypeRegistry, logger *zap.Logger) (*Mapper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	templates, err := tmpl.Load(tmpl.Funcs(tmpl.SolidityPathSeparator), "solidity-struct", "solidity-enum", "solidity-encoder", "solidity-codec")
	if err != nil {
		return nil, err
	}

	return &Mapper{
		project:   project,
		registry:  registry,
		templates: templates,
		logger:    logger,
	}, nil
}

func (m *Mapper) Registry() *TypeRegistry {
	return m.registry
}

// Map returns the translation of id, mapping it and everything it refers to
// if it is not in the registry yet.
func (m *Mapper) Map(id uint32) (MappedType, error) {
	return m.lookupOrMap(id, nil)
}

// visiting holds the chain of ids being mapped by the current top-level call
func (m *Mapper) lookupOrMap(id uint32, visiting []uint32) (MappedType, error) {
	if ty, ok := m.registry.Lookup(id); ok {
		return ty, nil
	}

	for _, seen := range visiting {
		if seen == id {
			cycle := append(append([]uint32{}, visiting...), id)
			return MappedType{}, errors.WithStack(&errs.CyclicTypeError{Path: cycle})
		}
	}

	chain := append(append(make([]uint32, 0, len(visiting)+1), visiting...), id)
	return m.registry.LookupOrInsert(id, func() (MappedType, error) {
		ty, err := m.convert(id, chain)
		if err != nil {
			return MappedType{}, err
		}
		m.logger.Debug("mapped type", zap.Uint32("id", id), zap.String("reference", ty.Reference))
		return ty, nil
	})
}

func (m *Mapper) convert(id uint32, chain []uint32) (MappedType, error) {
	ty, ok := m.project.Resolve(id)
	if !ok {
		return MappedType{}, errs.Templatef("unknown type id %d", id)
	}

	def := ty.Def
	switch def.Kind {
	case ink.KindPrimitive:
		return m.convertPrimitive(id, def.Primitive)
	case ink.KindArray:
		return m.convertArray(id, def.Array, chain)
	case ink.KindSequence:
		return m.convertSequence(def.Sequence, chain)
	case ink.KindComposite:
		return m.convertComposite(id, ty, chain)
	case ink.KindTuple:
		return m.convertTuple(id, ty, chain)
	case ink.KindVariant:
		return m.convertVariant(id, ty)
	}
	return MappedType{}, errs.Metadataf("type %d: %s types have no Solidity equivalent", id, def.Unsupported)
}

func (m *Mapper) convertPrimitive(id uint32, primitive ink.Primitive) (MappedType, error) {
	p, ok := primitives[primitive]
	if !ok {
		return MappedType{}, errs.Metadataf("type %d: primitive %s has no Solidity equivalent", id, primitive)
	}

	view := codecView{
		Param:     p.reference,
		Primitive: p.reference,
		Width:     p.width,
		Signed:    strings.HasPrefix(p.reference, "int"),
	}
	out := MappedType{Reference: p.reference}
	if primitive == ink.Str {
		out.Modifier = MemoryModifier
		view.Param = p.reference + " " + MemoryModifier
	}

	encoder, err := m.render("primitive_encoder", view)
	if err != nil {
		return MappedType{}, err
	}
	out.Encoder = encoder
	return out, nil
}

func (m *Mapper) convertArray(id uint32, array *ink.ArrayDef, chain []uint32) (MappedType, error) {
	if array.Len == 0 {
		return MappedType{}, errs.Metadataf("type %d: zero length arrays have no Solidity equivalent", id)
	}

	elem, err := m.lookupOrMap(array.Type, chain)
	if err != nil {
		return MappedType{}, err
	}

	// Byte arrays fit the fixed size bytes types
	if elem.Reference == "uint8" && array.Len <= 32 {
		reference := fmt.Sprintf("bytes%d", array.Len)
		encoder, err := m.render("bytes_encoder", codecView{Param: reference, Len: array.Len})
		if err != nil {
			return MappedType{}, err
		}
		return MappedType{Reference: reference, Encoder: encoder}, nil
	}

	reference := fmt.Sprintf("%s[%d]", elem.TypeName(), array.Len)
	encoder, err := m.render("array_encoder", codecView{
		Param: reference + " " + MemoryModifier,
		Elem:  elem.TypeName(),
		Len:   array.Len,
	})
	if err != nil {
		return MappedType{}, err
	}
	return MappedType{Reference: reference, Modifier: MemoryModifier, Encoder: encoder}, nil
}

func (m *Mapper) convertSequence(sequence *ink.SequenceDef, chain []uint32) (MappedType, error) {
	elem, err := m.lookupOrMap(sequence.Type, chain)
	if err != nil {
		return MappedType{}, err
	}

	var (
		name = "sequence_encoder"
		view = codecView{Elem: elem.TypeName()}
		out  = MappedType{Modifier: MemoryModifier}
	)
	if elem.Reference == "uint8" {
		name = "byte_sequence_encoder"
		out.Reference = "bytes"
	} else {
		out.Reference = elem.TypeName() + "[]"
	}
	view.Param = out.Reference + " " + MemoryModifier

	if out.Encoder, err = m.render(name, view); err != nil {
		return MappedType{}, err
	}
	return out, nil
}

func (m *Mapper) convertComposite(id uint32, ty *ink.Type, chain []uint32) (MappedType, error) {
	if len(ty.Path) == 0 {
		return MappedType{}, errs.Metadataf("type %d: composite without a path cannot be named in Solidity", id)
	}
	if len(ty.Def.Composite.Fields) == 0 {
		return MappedType{}, errs.Metadataf("type %d: composite without fields has no Solidity equivalent", id)
	}

	fields := make([]structField, len(ty.Def.Composite.Fields))
	for i, field := range ty.Def.Composite.Fields {
		mapped, err := m.lookupOrMap(field.Type, chain)
		if err != nil {
			return MappedType{}, err
		}

		name := fmt.Sprintf("f%d", i)
		if field.Name != nil && *field.Name != "" {
			name = *field.Name
		}
		fields[i] = structField{Name: name, Type: mapped.TypeName()}
	}

	view := m.newStruct(joinPath(ty.Path), ty.Path, fields)
	definition, encoder, err := m.renderStruct(view)
	if err != nil {
		return MappedType{}, err
	}

	return MappedType{
		Reference:  view.Name,
		Definition: definition,
		Modifier:   MemoryModifier,
		Encoder:    encoder,
	}, nil
}

// Tuples are not first class citizens of Solidity, so they become structs
// with anonymous members.
func (m *Mapper) convertTuple(id uint32, ty *ink.Type, chain []uint32) (MappedType, error) {
	if len(ty.Def.Tuple) == 0 {
		return MappedType{}, errs.Metadataf("type %d: the empty tuple has no Solidity equivalent", id)
	}

	fields := make([]structField, len(ty.Def.Tuple))
	for i, elemID := range ty.Def.Tuple {
		mapped, err := m.lookupOrMap(elemID, chain)
		if err != nil {
			return MappedType{}, err
		}
		fields[i] = structField{Name: fmt.Sprintf("f%d", i), Type: mapped.TypeName()}
	}

	name := joinPath(ty.Path)
	if name == "" {
		name = fmt.Sprintf("Tuple%d", id)
	}
	view := m.newStruct(name, ty.Path, fields)
	definition, encoder, err := m.renderStruct(view)
	if err != nil {
		return MappedType{}, err
	}

	return MappedType{
		Reference:  view.Name + " " + MemoryModifier,
		Definition: definition,
		Encoder:    encoder,
	}, nil
}

// Solidity enums cannot carry data or pick their discriminants, so only
// field-less C-style enums with indices 0..n-1 survive. Variant fields are
// dropped.
func (m *Mapper) convertVariant(id uint32, ty *ink.Type) (MappedType, error) {
	variants := ty.Def.Variant
	if len(variants.Variants) == 0 {
		return MappedType{}, errs.Metadataf("type %d: enum without variants has no Solidity equivalent", id)
	}
	for position, index := range variants.Indices() {
		if index != uint32(position) {
			return MappedType{}, errs.Metadataf("type %d: variant '%s' has index %d at position %d; only default variant indices are supported",
				id, variants.Variants[position].Name, index, position)
		}
	}
	if len(ty.Path) == 0 {
		return MappedType{}, errs.Metadataf("type %d: enum without a path cannot be named in Solidity", id)
	}

	name := abi.ResolveNameConflict(joinPath(ty.Path), m.registry.NameTaken)
	view := enumView{Name: name, Path: ty.Path, Variants: variants.Names()}

	definition, err := m.render("solidity-enum", view)
	if err != nil {
		return MappedType{}, err
	}
	encoder, err := m.render("enum_encoder", codecView{Param: name})
	if err != nil {
		return MappedType{}, err
	}

	return MappedType{Reference: name, Definition: definition, Encoder: encoder}, nil
}

func (m *Mapper) newStruct(name string, path []string, fields []structField) structView {
	name = abi.ResolveNameConflict(name, m.registry.NameTaken)
	return structView{
		Name:   name,
		Path:   path,
		Param:  name + " " + MemoryModifier,
		Fields: fields,
	}
}

func (m *Mapper) renderStruct(view structView) (string, string, error) {
	definition, err := m.render("solidity-struct", view)
	if err != nil {
		return "", "", err
	}
	encoder, err := m.render("solidity-encoder", view)
	if err != nil {
		return "", "", err
	}
	return definition, encoder, nil
}

func (m *Mapper) render(name string, data interface{}) (string, error) {
	out, err := tmpl.Render(m.templates, name, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func joinPath(path []string) string {
	return strings.Join(path, tmpl.SolidityPathSeparator)
}
