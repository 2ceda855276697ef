/*
   Copyright 2026 The Typegraph Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package errors provides reusable error types shared across the typegraph
// model and registry packages.
//
// This package defines the common error vocabulary used when parsing,
// marshaling and unmarshaling typegraph's strongly typed enum-like values
// (such as DispatchMode, Binding, DuplicationPolicy), when validating model
// types (Capability, Lineage, Definition), and when the registry rejects an
// operation at construction time. Centralizing these types gives every
// typegraph package the same error handling story and lets callers recognize
// failure categories via type assertions instead of string matching.
//
// The errors in this package are intentionally simple value carriers with
// stable message formats. They are designed to be:
//
//   - easy to construct from parsing / marshaling / validation code,
//   - easy to recognize via type assertions or errors.As,
//   - and easy for users to understand when surfaced in logs or diagnostics.
//
// # Error Types
//
//   - ParseError
//     Returned when parsing a string into an enum-like type fails.
//
//   - MarshalError
//     Returned when marshaling an invalid enum-like value fails.
//
//   - UnmarshalError
//     Returned when unmarshaling data into a typed value fails due to
//     invalid input, parse errors or constraint violations.
//
//   - ValidationError
//     Returned when validation of a model type fails.
//
//   - ConstructionError
//     Returned when an abstract entity type (one with unfulfilled mandatory
//     capabilities) is asked to construct an instance. This is always a
//     construction-time rejection, never a deferred runtime failure.
//
//   - AmbiguityError
//     Returned when a field reachable through more than one duplicated
//     inheritance path is accessed without an explicit path qualifier.
//
//   - NotFoundError
//     Returned when an API call names a type, capability, field or ancestor
//     the registry does not know.
//
// # Usage
//
// Each package that defines enum-like types can use these error types
// directly or create type aliases for better API clarity:
//
//	import "typegraph.dev/typegraph/tgcore/errors"
//
//	func ParseBinding(s string) (Binding, error) {
//	    switch s {
//	    case "mandatory":
//	        return BindingMandatory, nil
//	    case "defaulted":
//	        return BindingDefaulted, nil
//	    default:
//	        return 0, &errors.ParseError{Type: "Binding", Value: s}
//	    }
//	}
package errors

import (
	"strconv"
	"strings"
)

// ParseError is returned when parsing a string into a strongly typed
// enum-like value fails.
//
// Type identifies the logical type being parsed (for example, "Binding",
// "DispatchMode", "DuplicationPolicy"), and Value contains the exact string
// that could not be interpreted. Callers MAY pattern-match on Type to provide
// type-specific guidance or to translate errors into friendlier messages.
type ParseError struct {
	// Type is the logical name of the type being parsed.
	Type string

	// Value is the invalid textual representation that was provided.
	Value string
}

// Error implements the error interface for ParseError.
//
// The error message format is:
//
//	"typegraph: invalid {Type} value: {Value}"
//
// The format is intentionally stable so that callers can rely on it for
// diagnostics, while still preferring type assertions where possible.
func (e *ParseError) Error() string {
	return "typegraph: invalid " + e.Type + " value: " + e.Value
}

// MarshalError is returned when marshaling a typed value fails due to it
// being outside the set of valid constants.
//
// Type identifies the logical type being marshaled, and Value contains the
// underlying numeric value that was deemed invalid. A MarshalError usually
// indicates a programming error (for example, an enum value that was never
// validated); it acts as a guardrail preventing invalid values from being
// silently emitted into JSON or YAML.
type MarshalError struct {
	// Type is the logical name of the type being marshaled.
	Type string

	// Value is the underlying numeric representation that could not be
	// marshaled because it does not correspond to a known constant.
	Value int
}

// Error implements the error interface for MarshalError.
//
// The error message format is:
//
//	"typegraph: cannot marshal invalid {Type} value: {Value}"
//
// where Value is rendered as a decimal integer.
func (e *MarshalError) Error() string {
	return "typegraph: cannot marshal invalid " + e.Type + " value: " + strconv.Itoa(e.Value)
}

// UnmarshalError is returned when unmarshaling data into a typed value
// fails.
//
// Type identifies the logical type being populated, Data contains the
// original raw payload (typically a JSON or YAML fragment), and Reason
// provides a human-readable description of what went wrong. Callers MAY wrap
// UnmarshalError with additional context when propagating it further up the
// stack.
type UnmarshalError struct {
	// Type is the logical name of the type being unmarshaled into.
	Type string

	// Data is the raw input that failed to unmarshal.
	//
	// Callers MAY choose to log or redact this field depending on size
	// considerations.
	Data []byte

	// Reason is a short, human-readable explanation of the failure.
	//
	// Reason SHOULD describe what went wrong (for example, "empty data" or
	// "unknown value 'foo'") rather than repeating the type name; the type
	// name is already reflected in Error().
	Reason string
}

// Error implements the error interface for UnmarshalError.
//
// The error message format is:
//
//	"typegraph: cannot unmarshal {Type}: {Reason}"
//
// The Data field is intentionally not included in the formatted message to
// avoid excessively verbose logs; callers can log it separately when
// appropriate.
func (e *UnmarshalError) Error() string {
	return "typegraph: cannot unmarshal " + e.Type + ": " + e.Reason
}

// ValidationError is returned when validation of a model type fails.
//
// Type identifies the logical name of the type being validated (for example,
// "Capability", "Lineage", "Definition"), Field optionally identifies which
// field failed validation, Reason provides a human-readable explanation of
// the failure, and Value optionally contains the problematic value.
//
// This error is used by Validate() methods in model types to report
// constraint violations, missing required fields, or invalid field values.
type ValidationError struct {
	// Type is the logical name of the type being validated.
	Type string

	// Field is the name of the field that failed validation.
	// May be empty if the error applies to the entire type.
	Field string

	// Reason is a short, human-readable explanation of why validation failed.
	Reason string

	// Value optionally contains the invalid value.
	// May be nil if not applicable.
	Value any
}

// Error implements the error interface for ValidationError.
//
// The error message format is:
//
//	"typegraph: invalid {Type}.{Field}: {Reason}" (when Field is specified)
//	"typegraph: invalid {Type}: {Reason}" (when Field is empty)
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "typegraph: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "typegraph: invalid " + e.Type + ": " + e.Reason
}

// ConstructionError is returned when an abstract entity type is asked to
// construct an instance.
//
// An entity type is abstract when at least one mandatory capability visible
// from it has no implementation anywhere along its lineage. Abstract types
// may be referenced (as the static type of an ancestor-capability Ref) but
// never instantiated; the registry reports the rejection at construction
// time, never as a deferred runtime failure.
//
// Type names the entity type whose construction was rejected and Missing
// lists every mandatory capability left without an implementation, in
// declaration order, so the caller can see exactly which overrides are
// outstanding.
type ConstructionError struct {
	// Type is the entity type whose construction was rejected.
	Type string

	// Missing lists the mandatory capabilities without an implementation.
	Missing []string
}

// Error implements the error interface for ConstructionError.
//
// The error message format is:
//
//	"typegraph: cannot construct abstract type {Type}: missing {caps}"
//
// where {caps} is the comma-separated list of unfulfilled mandatory
// capabilities.
func (e *ConstructionError) Error() string {
	return "typegraph: cannot construct abstract type " + e.Type +
		": missing " + strings.Join(e.Missing, ", ")
}

// AmbiguityError is returned when a field reachable through more than one
// duplicated inheritance path is accessed without an explicit path
// qualifier.
//
// Under the unique duplication policy a shared ancestor contributes one
// state frame per inheritance path, so an unqualified field name no longer
// identifies a single frame. Type names the entity type the access was made
// through, Field is the ambiguous field name, and Paths enumerates the
// explicit qualifiers that would each resolve the access, so the caller can
// pick one.
type AmbiguityError struct {
	// Type is the entity type the ambiguous access was made through.
	Type string

	// Field is the field name that could not be resolved unqualified.
	Field string

	// Paths lists the explicit path qualifiers that would resolve the
	// access, one per reachable frame.
	Paths []string
}

// Error implements the error interface for AmbiguityError.
//
// The error message format is:
//
//	"typegraph: ambiguous field {Field} on {Type}: qualify with one of {paths}"
func (e *AmbiguityError) Error() string {
	return "typegraph: ambiguous field " + e.Field + " on " + e.Type +
		": qualify with one of " + strings.Join(e.Paths, ", ")
}

// NotFoundError is returned when an API call names a type, capability,
// field or ancestor the registry does not know.
//
// Kind categorizes what was looked up ("type", "capability",
// "implementation", "field", "ancestor", "path") and Name is the unknown
// identifier.
type NotFoundError struct {
	// Kind categorizes the lookup that failed.
	Kind string

	// Name is the identifier that could not be found.
	Name string
}

// Error implements the error interface for NotFoundError.
//
// The error message format is:
//
//	"typegraph: unknown {Kind}: {Name}"
func (e *NotFoundError) Error() string {
	return "typegraph: unknown " + e.Kind + ": " + e.Name
}
