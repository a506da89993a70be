// Package ink2sol translates ink! metadata into a Solidity wrapper contract.
package ink2sol

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/jshufro/xvm-bridge/lib/errs"
)

// MappedType is how a translated type shows up in Solidity source. Empty
// Definition, Modifier and Encoder mean the slot is absent.
type MappedType struct {
	// How the type is written where a type name is expected. Tuples carry
	// their memory qualifier here.
	Reference string

	// Source declaring the type, for structs and enums
	Definition string

	// Data location to put after the reference in parameter lists
	Modifier string

	// Source of the scale_encode overload for the type
	Encoder string
}

// TypeName is the reference without any inline data location.
func (t MappedType) TypeName() string {
	return strings.TrimSuffix(t.Reference, " "+MemoryModifier)
}

// Slot returns one of the four slots by name.
func (t MappedType) Slot(name string) (string, error) {
	switch name {
	case "reference":
		return t.Reference, nil
	case "definition":
		return t.Definition, nil
	case "modifier":
		return t.Modifier, nil
	case "encoder":
		return t.Encoder, nil
	}
	return "", errs.Templatef("unknown type slot '%s'", name)
}

// TypeRegistry maps ink! type ids to their Solidity translation. It is
// populated on demand while the module template renders. The lock is only
// ever held around map access, never while a type is being computed, so a
// computation may recurse into the registry.
type TypeRegistry struct {
	lock    sync.Mutex
	mapping map[uint32]MappedType

	// Names of declared types, so that generic instances sharing a path get distinct names
	names map[string]uint32
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		mapping: make(map[uint32]MappedType),
		names:   make(map[string]uint32),
	}
}

func (r *TypeRegistry) Lookup(id uint32) (MappedType, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ty, ok := r.mapping[id]
	return ty, ok
}

func (r *TypeRegistry) HasMapping(id uint32) bool {
	_, ok := r.Lookup(id)
	return ok
}

// LookupOrInsert returns the entry for id, computing and inserting it with
// makeType if absent. Nothing is inserted when makeType fails.
func (r *TypeRegistry) LookupOrInsert(id uint32, makeType func() (MappedType, error)) (MappedType, error) {
	if ty, ok := r.Lookup(id); ok {
		return ty, nil
	}

	ty, err := makeType()
	if err != nil {
		return MappedType{}, err
	}
	if ty.Reference == "" {
		return MappedType{}, errors.WithStack(&errs.TemplateError{Detail: "type translated to an empty reference"})
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.mapping[id]; ok {
		return existing, nil
	}
	r.mapping[id] = ty
	if ty.Definition != "" {
		r.names[ty.TypeName()] = id
	}
	return ty, nil
}

// NameTaken reports whether a declared type already uses name.
func (r *TypeRegistry) NameTaken(name string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	_, ok := r.names[name]
	return ok
}

// IDs lists the mapped ids in ascending order.
func (r *TypeRegistry) IDs() []uint32 {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]uint32, 0, len(r.mapping))
	for id := range r.mapping {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *TypeRegistry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.mapping)
}
