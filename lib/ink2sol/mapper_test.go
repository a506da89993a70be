package ink2sol

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jshufro/xvm-bridge/lib/errs"
	"github.com/jshufro/xvm-bridge/lib/ink"
)

func named(s string) *string { return &s }

func index(i uint8) *uint8 { return &i }

func primitive(id uint32, p ink.Primitive) ink.PortableType {
	return ink.PortableType{ID: id, Type: ink.Type{Def: ink.TypeDef{Kind: ink.KindPrimitive, Primitive: p}}}
}

func array(id uint32, elem uint32, length uint32) ink.PortableType {
	return ink.PortableType{ID: id, Type: ink.Type{Def: ink.TypeDef{Kind: ink.KindArray, Array: &ink.ArrayDef{Len: length, Type: elem}}}}
}

func sequence(id uint32, elem uint32) ink.PortableType {
	return ink.PortableType{ID: id, Type: ink.Type{Def: ink.TypeDef{Kind: ink.KindSequence, Sequence: &ink.SequenceDef{Type: elem}}}}
}

func tuple(id uint32, elems ...uint32) ink.PortableType {
	return ink.PortableType{ID: id, Type: ink.Type{Def: ink.TypeDef{Kind: ink.KindTuple, Tuple: elems}}}
}

func composite(id uint32, path []string, fields ...ink.Field) ink.PortableType {
	return ink.PortableType{ID: id, Type: ink.Type{Path: path, Def: ink.TypeDef{Kind: ink.KindComposite, Composite: &ink.CompositeDef{Fields: fields}}}}
}

func variant(id uint32, path []string, variants ...ink.Variant) ink.PortableType {
	return ink.PortableType{ID: id, Type: ink.Type{Path: path, Def: ink.TypeDef{Kind: ink.KindVariant, Variant: &ink.VariantDef{Variants: variants}}}}
}

func newTestMapper(t *testing.T, types ...ink.PortableType) *Mapper {
	project, err := ink.NewProject(ink.Spec{}, types)
	require.NoError(t, err)

	mapper, err := NewMapper(project, NewTypeRegistry(), nil)
	require.NoError(t, err)
	return mapper
}

func TestMapPrimitives(t *testing.T) {
	testCases := []struct {
		primitive ink.Primitive
		reference string
	}{
		{ink.Bool, "bool"},
		{ink.Str, "string"},
		{ink.U8, "uint8"},
		{ink.U16, "uint16"},
		{ink.U32, "uint32"},
		{ink.U64, "uint64"},
		{ink.U128, "uint128"},
		{ink.U256, "uint256"},
		{ink.I8, "int8"},
		{ink.I16, "int16"},
		{ink.I32, "int32"},
		{ink.I64, "int64"},
		{ink.I128, "int128"},
		{ink.I256, "int256"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.primitive), func(t *testing.T) {
			mapper := newTestMapper(t, primitive(0, tc.primitive))

			ty, err := mapper.Map(0)
			require.NoError(t, err)
			assert.Equal(t, tc.reference, ty.Reference)
			assert.Empty(t, ty.Definition)
			assert.Contains(t, ty.Encoder, "function scale_encode("+tc.reference)
			assert.True(t, mapper.Registry().HasMapping(0))
		})
	}
}

func TestMapPrimitiveEncoders(t *testing.T) {
	mapper := newTestMapper(t, primitive(0, ink.U128), primitive(1, ink.I16), primitive(2, ink.Str), primitive(3, ink.Bool))

	u128, err := mapper.Map(0)
	require.NoError(t, err)
	assert.Contains(t, u128.Encoder, "scale_le(uint256(value), 16)")

	i16, err := mapper.Map(1)
	require.NoError(t, err)
	assert.Contains(t, i16.Encoder, "scale_le(uint256(int256(value)), 2)")

	str, err := mapper.Map(2)
	require.NoError(t, err)
	assert.Equal(t, MemoryModifier, str.Modifier)
	assert.Contains(t, str.Encoder, "scale_encode(string memory value)")
	assert.Contains(t, str.Encoder, "scale_compact(raw.length)")

	b, err := mapper.Map(3)
	require.NoError(t, err)
	assert.Contains(t, b.Encoder, "value ? uint8(1) : uint8(0)")
}

func TestMapCharFails(t *testing.T) {
	mapper := newTestMapper(t, primitive(0, ink.Char))

	_, err := mapper.Map(0)
	var metadataErr *errs.MetadataError
	require.True(t, errors.As(err, &metadataErr), "unexpected error %v", err)
	assert.False(t, mapper.Registry().HasMapping(0))
}

func TestMapByteArrays(t *testing.T) {
	mapper := newTestMapper(t,
		primitive(0, ink.U8),
		array(1, 0, 20),
		array(2, 0, 32),
		array(3, 0, 33),
		array(4, 0, 1),
		primitive(5, ink.U16),
		array(6, 5, 4),
	)

	testCases := []struct {
		id        uint32
		reference string
		modifier  string
	}{
		{1, "bytes20", ""},
		{2, "bytes32", ""},
		{3, "uint8[33]", MemoryModifier},
		{4, "bytes1", ""},
		{6, "uint16[4]", MemoryModifier},
	}
	for _, tc := range testCases {
		ty, err := mapper.Map(tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.reference, ty.Reference, "type %d", tc.id)
		assert.Equal(t, tc.modifier, ty.Modifier, "type %d", tc.id)
		assert.Empty(t, ty.Definition, "type %d", tc.id)
		assert.NotEmpty(t, ty.Encoder, "type %d", tc.id)
	}

	bytes20, _ := mapper.Registry().Lookup(1)
	assert.Contains(t, bytes20.Encoder, "scale_encode(bytes20 value)")
	long, _ := mapper.Registry().Lookup(3)
	assert.Contains(t, long.Encoder, "scale_encode(uint8[33] memory value)")
	assert.Contains(t, long.Encoder, "i < 33")
}

func TestMapZeroLengthArrayFails(t *testing.T) {
	mapper := newTestMapper(t, primitive(0, ink.U8), array(1, 0, 0))

	_, err := mapper.Map(1)
	var metadataErr *errs.MetadataError
	assert.True(t, errors.As(err, &metadataErr), "unexpected error %v", err)
	assert.False(t, mapper.Registry().HasMapping(1))
}

func TestMapSequences(t *testing.T) {
	mapper := newTestMapper(t, primitive(0, ink.U8), sequence(1, 0), primitive(2, ink.U32), sequence(3, 2))

	bytes, err := mapper.Map(1)
	require.NoError(t, err)
	assert.Equal(t, "bytes", bytes.Reference)
	assert.Equal(t, MemoryModifier, bytes.Modifier)
	assert.Contains(t, bytes.Encoder, "scale_encode(bytes memory value)")

	words, err := mapper.Map(3)
	require.NoError(t, err)
	assert.Equal(t, "uint32[]", words.Reference)
	assert.Contains(t, words.Encoder, "scale_compact(value.length)")
}

// An address-like composite over [u8; 20] used by a struct
func transferTypes() []ink.PortableType {
	return []ink.PortableType{
		primitive(1, ink.U8),
		array(2, 1, 20),
		composite(3, []string{"ink_env", "types", "AccountId"}, ink.Field{Type: 2, TypeName: named("[u8; 20]")}),
		primitive(5, ink.U128),
		composite(7, []string{"erc20", "Transfer"},
			ink.Field{Name: named("from"), Type: 3},
			ink.Field{Name: named("to"), Type: 3},
			ink.Field{Name: named("value"), Type: 5},
		),
	}
}

func TestMapComposite(t *testing.T) {
	mapper := newTestMapper(t, transferTypes()...)

	_, err := mapper.Map(7)
	require.NoError(t, err)

	registry := mapper.Registry()
	for _, id := range []uint32{3, 5, 7} {
		assert.True(t, registry.HasMapping(id), "type %d", id)
	}

	transfer, ok := registry.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "erc20_Transfer", transfer.Reference)
	assert.Equal(t, MemoryModifier, transfer.Modifier)
	assert.Equal(t, "struct erc20_Transfer {\n"+
		"    ink_env_types_AccountId from;\n"+
		"    ink_env_types_AccountId to;\n"+
		"    uint128 value;\n"+
		"}", transfer.Definition)
	assert.Equal(t, "function scale_encode(erc20_Transfer memory value) pure returns (bytes memory) {\n"+
		"    return bytes.concat(\n"+
		"        scale_encode(value.from),\n"+
		"        scale_encode(value.to),\n"+
		"        scale_encode(value.value)\n"+
		"    );\n"+
		"}", transfer.Encoder)

	account, ok := registry.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "ink_env_types_AccountId", account.Reference)
	assert.Contains(t, account.Definition, "bytes20 f0;")
}

func TestMapCompositeWithoutPathFails(t *testing.T) {
	mapper := newTestMapper(t, primitive(0, ink.U8), composite(1, nil, ink.Field{Type: 0}))

	_, err := mapper.Map(1)
	var metadataErr *errs.MetadataError
	assert.True(t, errors.As(err, &metadataErr), "unexpected error %v", err)
}

func TestMapUnitCompositeFails(t *testing.T) {
	mapper := newTestMapper(t, composite(3, []string{"erc20", "Paused"}))

	_, err := mapper.Map(3)
	var metadataErr *errs.MetadataError
	require.True(t, errors.As(err, &metadataErr), "unexpected error %v", err)
	assert.Contains(t, metadataErr.Detail, "without fields")
	assert.False(t, mapper.Registry().HasMapping(3))
}

func TestMapTuple(t *testing.T) {
	mapper := newTestMapper(t, primitive(0, ink.U8), primitive(1, ink.Bool), tuple(9, 0, 1), tuple(10, 9, 0))

	ty, err := mapper.Map(9)
	require.NoError(t, err)
	assert.Equal(t, "Tuple9 memory", ty.Reference)
	assert.Empty(t, ty.Modifier)
	assert.Equal(t, "struct Tuple9 {\n    uint8 f0;\n    bool f1;\n}", ty.Definition)
	assert.Contains(t, ty.Encoder, "scale_encode(Tuple9 memory value)")

	// Nested tuples are referred to by name only inside structs
	nested, err := mapper.Map(10)
	require.NoError(t, err)
	assert.Contains(t, nested.Definition, "    Tuple9 f0;\n")
}

func TestMapEmptyTupleFails(t *testing.T) {
	mapper := newTestMapper(t, tuple(0))

	_, err := mapper.Map(0)
	var metadataErr *errs.MetadataError
	assert.True(t, errors.As(err, &metadataErr), "unexpected error %v", err)
}

func TestMapVariant(t *testing.T) {
	mapper := newTestMapper(t,
		primitive(0, ink.U32),
		variant(1, []string{"erc20", "Error"},
			ink.Variant{Name: "InsufficientBalance", Index: index(0)},
			ink.Variant{Name: "InsufficientAllowance", Index: index(1), Fields: []ink.Field{{Type: 0}}},
			ink.Variant{Name: "Other"},
		),
	)

	ty, err := mapper.Map(1)
	require.NoError(t, err)
	assert.Equal(t, "erc20_Error", ty.Reference)
	assert.Empty(t, ty.Modifier)
	assert.Equal(t, "enum erc20_Error {\n    InsufficientBalance,\n    InsufficientAllowance,\n    Other\n}", ty.Definition)
	assert.Contains(t, ty.Encoder, "scale_encode(erc20_Error value)")

	// Variant fields are dropped, not mapped
	assert.False(t, mapper.Registry().HasMapping(0))
}

func TestMapVariantNonDefaultIndices(t *testing.T) {
	mapper := newTestMapper(t, variant(4, []string{"Flags"},
		ink.Variant{Name: "A", Index: index(0)},
		ink.Variant{Name: "B", Index: index(2)},
	))

	_, err := mapper.Map(4)
	var metadataErr *errs.MetadataError
	require.True(t, errors.As(err, &metadataErr), "unexpected error %v", err)
	assert.Contains(t, metadataErr.Detail, "variant")
	assert.Contains(t, metadataErr.Detail, "index 2")
	assert.False(t, mapper.Registry().HasMapping(4))
	assert.Zero(t, mapper.Registry().Len())
}

func TestMapNameConflicts(t *testing.T) {
	mapper := newTestMapper(t,
		variant(1, []string{"Option"}, ink.Variant{Name: "None"}, ink.Variant{Name: "Some"}),
		variant(2, []string{"Option"}, ink.Variant{Name: "None"}, ink.Variant{Name: "Some"}),
	)

	first, err := mapper.Map(1)
	require.NoError(t, err)
	second, err := mapper.Map(2)
	require.NoError(t, err)

	assert.Equal(t, "Option", first.Reference)
	assert.Equal(t, "Option0", second.Reference)
}

func TestMapCycle(t *testing.T) {
	mapper := newTestMapper(t,
		composite(1, []string{"Node"}, ink.Field{Name: named("next"), Type: 2}),
		composite(2, []string{"Link"}, ink.Field{Name: named("node"), Type: 1}),
	)

	_, err := mapper.Map(1)
	var cyclic *errs.CyclicTypeError
	require.True(t, errors.As(err, &cyclic), "unexpected error %v", err)
	assert.Equal(t, []uint32{1, 2, 1}, cyclic.Path)
	assert.Zero(t, mapper.Registry().Len())
}

func TestMapUnsupportedAndUnknown(t *testing.T) {
	mapper := newTestMapper(t,
		ink.PortableType{ID: 0, Type: ink.Type{Def: ink.TypeDef{Kind: ink.KindUnsupported, Unsupported: "compact"}}},
		primitive(1, ink.U8),
	)

	_, err := mapper.Map(0)
	var metadataErr *errs.MetadataError
	require.True(t, errors.As(err, &metadataErr), "unexpected error %v", err)
	assert.Contains(t, metadataErr.Detail, "compact")

	// Only the unsupported id fails
	_, err = mapper.Map(1)
	assert.NoError(t, err)

	_, err = mapper.Map(42)
	var templateErr *errs.TemplateError
	assert.True(t, errors.As(err, &templateErr), "unexpected error %v", err)
}

func TestRegistryClosure(t *testing.T) {
	types := transferTypes()
	mapper := newTestMapper(t, types...)

	_, err := mapper.Map(7)
	require.NoError(t, err)

	project := mapper.project
	for _, id := range mapper.Registry().IDs() {
		ty, ok := project.Resolve(id)
		require.True(t, ok)
		var refs []uint32
		switch ty.Def.Kind {
		case ink.KindArray:
			refs = append(refs, ty.Def.Array.Type)
		case ink.KindComposite:
			for _, f := range ty.Def.Composite.Fields {
				refs = append(refs, f.Type)
			}
		}
		for _, ref := range refs {
			assert.True(t, mapper.Registry().HasMapping(ref), "type %d refers to unmapped %d", id, ref)
		}
	}
	assert.Equal(t, []uint32{1, 2, 3, 5, 7}, mapper.Registry().IDs())
}
