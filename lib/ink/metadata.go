// Package ink decodes ink! contract metadata (schema V3) into a project with a
// portable type registry.
package ink

import (
	"io"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/jshufro/xvm-bridge/lib/errs"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// The key of the envelope carrying the project
const versionKey = "V3"

type ContractInfo struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Authors []string `json:"authors,omitempty"`
}

// Metadata is the decoded metadata document.
type Metadata struct {
	Contract ContractInfo
	Project  *Project
}

// Project is the ink! project: its spec and the types the spec refers to.
type Project struct {
	Spec    Spec                `json:"spec"`
	Storage jsoniter.RawMessage `json:"storage,omitempty"`
	Types   []PortableType      `json:"types"`

	byID map[uint32]*Type
}

type Spec struct {
	Constructors []Constructor `json:"constructors"`
	Messages     []Message     `json:"messages"`
	Events       []Event       `json:"events"`
	Docs         []string      `json:"docs"`
}

// TypeSpec refers to a registry type, with the name the contract author used for it.
type TypeSpec struct {
	Type        uint32   `json:"type"`
	DisplayName []string `json:"displayName"`
}

type Arg struct {
	Label string   `json:"label"`
	Type  TypeSpec `json:"type"`
}

type Constructor struct {
	Label    string   `json:"label"`
	Selector string   `json:"selector"`
	Payable  bool     `json:"payable"`
	Args     []Arg    `json:"args"`
	Docs     []string `json:"docs"`
}

type Message struct {
	Label      string    `json:"label"`
	Selector   string    `json:"selector"`
	Mutates    bool      `json:"mutates"`
	Payable    bool      `json:"payable"`
	Args       []Arg     `json:"args"`
	ReturnType *TypeSpec `json:"returnType"`
	Docs       []string  `json:"docs"`
}

type EventParam struct {
	Label   string   `json:"label"`
	Indexed bool     `json:"indexed"`
	Type    TypeSpec `json:"type"`
	Docs    []string `json:"docs"`
}

type Event struct {
	Label string       `json:"label"`
	Args  []EventParam `json:"args"`
	Docs  []string     `json:"docs"`
}

// PortableType is one entry of the portable registry.
type PortableType struct {
	ID   uint32 `json:"id"`
	Type Type   `json:"type"`
}

// Type is a registry type. Path qualifies named types; it is empty for
// primitives, arrays, sequences and tuples.
type Type struct {
	Path   []string    `json:"path,omitempty"`
	Params []TypeParam `json:"params,omitempty"`
	Def    TypeDef     `json:"def"`
	Docs   []string    `json:"docs,omitempty"`
}

type TypeParam struct {
	Name string  `json:"name"`
	Type *uint32 `json:"type"`
}

// Resolve finds a type of the registry by id.
func (p *Project) Resolve(id uint32) (*Type, bool) {
	ty, ok := p.byID[id]
	return ty, ok
}

func (p *Project) index() error {
	// Rendering walks types in id order
	sort.SliceStable(p.Types, func(i, j int) bool {
		return p.Types[i].ID < p.Types[j].ID
	})

	p.byID = make(map[uint32]*Type, len(p.Types))
	for i := range p.Types {
		entry := &p.Types[i]
		if _, dup := p.byID[entry.ID]; dup {
			return errs.Metadataf("type id %d is declared more than once", entry.ID)
		}
		p.byID[entry.ID] = &entry.Type
	}
	return nil
}

// NewProject builds a project from already decoded parts.
func NewProject(spec Spec, types []PortableType) (*Project, error) {
	p := &Project{Spec: spec, Types: types}
	if err := p.index(); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadMetadata decodes a metadata document whose V3 key holds the project.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(&errs.ReadInputError{Cause: err})
	}
	return ParseMetadata(data)
}

// ParseMetadata is ReadMetadata over an in-memory document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var envelope map[string]jsoniter.RawMessage
	if err := jsonCodec.Unmarshal(data, &envelope); err != nil {
		return nil, errors.WithStack(&errs.MalformedJSONError{Cause: err})
	}

	out := &Metadata{}
	if raw, ok := envelope["contract"]; ok {
		if err := jsonCodec.Unmarshal(raw, &out.Contract); err != nil {
			return nil, errors.WithStack(&errs.MalformedJSONError{Cause: errors.Wrap(err, "contract")})
		}
	}

	raw, ok := envelope[versionKey]
	if !ok {
		return nil, errs.Metadataf("no %s key in metadata; only metadata version %s is supported", versionKey, versionKey)
	}

	project := &Project{}
	if err := jsonCodec.Unmarshal(raw, project); err != nil {
		return nil, errors.WithStack(&errs.MalformedJSONError{Cause: errors.Wrap(err, versionKey)})
	}
	if err := project.index(); err != nil {
		return nil, err
	}
	out.Project = project

	return out, nil
}
