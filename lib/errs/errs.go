// Package errs holds the error kinds surfaced by both translation pipelines.
// Each kind carries enough context to locate the offending input element.
package errs

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ReadInputError reports a failure to open or read the input.
type ReadInputError struct {
	Path  string
	Cause error
}

func (e *ReadInputError) Error() string {
	return fmt.Sprintf("unable to read input %s: %v", displayPath(e.Path, "stdin"), e.Cause)
}

func (e *ReadInputError) Unwrap() error { return e.Cause }

// WriteOutputError reports a failure to create or write the output.
type WriteOutputError struct {
	Path  string
	Cause error
}

func (e *WriteOutputError) Error() string {
	return fmt.Sprintf("unable to write output %s: %v", displayPath(e.Path, "stdout"), e.Cause)
}

func (e *WriteOutputError) Unwrap() error { return e.Cause }

// MalformedJSONError reports input that is not a JSON document of the expected shape.
type MalformedJSONError struct {
	Cause error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON: %v", e.Cause)
}

func (e *MalformedJSONError) Unwrap() error { return e.Cause }

// MalformedAbiError reports an ABI item with a missing or mistyped field.
type MalformedAbiError struct {
	Index int
	Field string
}

func (e *MalformedAbiError) Error() string {
	return fmt.Sprintf("malformed ABI item %d: field '%s' is missing or has the wrong type", e.Index, e.Field)
}

// MetadataError reports a semantic problem in Ink metadata.
type MetadataError struct {
	Detail string
}

func (e *MetadataError) Error() string {
	return "metadata error: " + e.Detail
}

// AbiTypeParseError reports a Solidity type string that could not be parsed.
// Item names the function, Index is the parameter position within it.
type AbiTypeParseError struct {
	Raw   string
	Item  string
	Index int
	Cause error
}

func (e *AbiTypeParseError) Error() string {
	msg := fmt.Sprintf("unable to parse type '%s' of parameter %d of %s", e.Raw, e.Index, e.Item)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AbiTypeParseError) Unwrap() error { return e.Cause }

// TemplateError reports a problem detected while rendering.
type TemplateError struct {
	Detail string
	Cause  error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Detail, e.Cause)
	}
	return "template error: " + e.Detail
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// CyclicTypeError reports a type that refers back to itself. Path lists the
// ids from the outermost type down to the repeated one.
type CyclicTypeError struct {
	Path []uint32
}

func (e *CyclicTypeError) Error() string {
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = fmt.Sprint(id)
	}
	return "cyclic type reference: " + strings.Join(ids, " -> ")
}

// Metadataf builds a MetadataError from a format string.
func Metadataf(format string, args ...interface{}) error {
	return errors.WithStack(&MetadataError{Detail: fmt.Sprintf(format, args...)})
}

// Templatef builds a TemplateError from a format string.
func Templatef(format string, args ...interface{}) error {
	return errors.WithStack(&TemplateError{Detail: fmt.Sprintf(format, args...)})
}

func displayPath(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}
