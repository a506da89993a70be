package ink

import (
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Kind is the discriminant of a type definition.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPrimitive
	KindArray
	KindSequence
	KindTuple
	KindComposite
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindSequence:
		return "sequence"
	case KindTuple:
		return "tuple"
	case KindComposite:
		return "composite"
	case KindVariant:
		return "variant"
	}
	return "unsupported"
}

// Primitive scalar kinds
type Primitive string

const (
	Bool Primitive = "bool"
	Char Primitive = "char"
	Str  Primitive = "str"
	U8   Primitive = "u8"
	U16  Primitive = "u16"
	U32  Primitive = "u32"
	U64  Primitive = "u64"
	U128 Primitive = "u128"
	U256 Primitive = "u256"
	I8   Primitive = "i8"
	I16  Primitive = "i16"
	I32  Primitive = "i32"
	I64  Primitive = "i64"
	I128 Primitive = "i128"
	I256 Primitive = "i256"
)

type Field struct {
	Name     *string  `json:"name,omitempty"`
	Type     uint32   `json:"type"`
	TypeName *string  `json:"typeName,omitempty"`
	Docs     []string `json:"docs,omitempty"`
}

type Variant struct {
	Name   string   `json:"name"`
	Fields []Field  `json:"fields,omitempty"`
	Index  *uint8   `json:"index,omitempty"`
	Docs   []string `json:"docs,omitempty"`
}

type ArrayDef struct {
	Len  uint32 `json:"len"`
	Type uint32 `json:"type"`
}

type SequenceDef struct {
	Type uint32 `json:"type"`
}

type CompositeDef struct {
	Fields []Field `json:"fields,omitempty"`
}

type VariantDef struct {
	Variants []Variant `json:"variants,omitempty"`
}

// TypeDef is a tagged union over the type definition kinds. Exactly the
// member matching Kind is set. Kinds the bridge cannot translate keep their
// name in Unsupported.
type TypeDef struct {
	Kind Kind

	Primitive   Primitive
	Array       *ArrayDef
	Sequence    *SequenceDef
	Tuple       []uint32
	Composite   *CompositeDef
	Variant     *VariantDef
	Unsupported string
}

func (d *TypeDef) UnmarshalJSON(data []byte) error {
	var tagged map[string]jsoniter.RawMessage
	if err := jsonCodec.Unmarshal(data, &tagged); err != nil {
		return errors.Wrap(err, "type definition")
	}
	if len(tagged) != 1 {
		return errors.Errorf("type definition must have exactly one kind, got %d", len(tagged))
	}

	for kind, body := range tagged {
		var err error
		switch kind {
		case "primitive":
			d.Kind = KindPrimitive
			err = jsonCodec.Unmarshal(body, &d.Primitive)
		case "array":
			d.Kind = KindArray
			d.Array = &ArrayDef{}
			err = jsonCodec.Unmarshal(body, d.Array)
		case "sequence":
			d.Kind = KindSequence
			d.Sequence = &SequenceDef{}
			err = jsonCodec.Unmarshal(body, d.Sequence)
		case "tuple":
			d.Kind = KindTuple
			d.Tuple = []uint32{}
			err = jsonCodec.Unmarshal(body, &d.Tuple)
		case "composite":
			d.Kind = KindComposite
			d.Composite = &CompositeDef{}
			err = jsonCodec.Unmarshal(body, d.Composite)
		case "variant":
			d.Kind = KindVariant
			d.Variant = &VariantDef{}
			err = jsonCodec.Unmarshal(body, d.Variant)
		default:
			d.Kind = KindUnsupported
			d.Unsupported = kind
		}
		if err != nil {
			return errors.Wrapf(err, "%s type definition", kind)
		}
	}
	return nil
}

func (d TypeDef) MarshalJSON() ([]byte, error) {
	var body interface{}
	switch d.Kind {
	case KindPrimitive:
		body = d.Primitive
	case KindArray:
		body = d.Array
	case KindSequence:
		body = d.Sequence
	case KindTuple:
		body = d.Tuple
	case KindComposite:
		body = d.Composite
	case KindVariant:
		body = d.Variant
	default:
		body = map[string]interface{}{}
	}
	return jsonCodec.Marshal(map[string]interface{}{d.kindName(): body})
}

func (d TypeDef) kindName() string {
	if d.Kind == KindUnsupported && d.Unsupported != "" {
		return d.Unsupported
	}
	return d.Kind.String()
}

// Indices returns the declared discriminants in declaration order. Variants
// without an explicit index take their position.
func (v *VariantDef) Indices() []uint32 {
	out := make([]uint32, len(v.Variants))
	for i, variant := range v.Variants {
		if variant.Index != nil {
			out[i] = uint32(*variant.Index)
		} else {
			out[i] = uint32(i)
		}
	}
	return out
}

// Names lists the variant names in declaration order.
func (v *VariantDef) Names() []string {
	out := make([]string, len(v.Variants))
	for i, variant := range v.Variants {
		out[i] = variant.Name
	}
	return out
}

// IDs lists the type ids of the project in ascending order.
func (p *Project) IDs() []uint32 {
	out := make([]uint32, 0, len(p.byID))
	for id := range p.byID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
