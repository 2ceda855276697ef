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

// Package model defines the core contracts that all typegraph model types
// MUST implement to ensure consistency, type safety, and proper behavior
// across the library.
//
// Every type describing part of an entity hierarchy (such as Capability,
// DispatchMode, DuplicationPolicy, Lineage, Path, Definition) SHOULD
// implement the Model interface or its constituent parts (Validatable,
// Serializable, Loggable, Identifiable, ZeroCheckable). These interfaces
// establish a common contract for validation, serialization, logging, and
// identity that enables generic operations and guarantees safety at compile
// time.
//
// Validation ensures that invalid hierarchy descriptions cannot be
// constructed or registered. Serialization provides round-trip guarantees
// for declarative definition documents (YAML) and API payloads (JSON).
// Loggable provides stable representations for structured logging.
// Identifiable enables reflection-free type naming in diagnostics.
// ZeroCheckable supports optional field detection.
//
// Unless explicitly documented otherwise, implementations are not
// thread-safe for concurrent mutation. Most model types are immutable value
// types, making them naturally safe for concurrent read access.
//
// Types implementing Model can be used with the generic helper functions in
// this package, such as ValidateAll, FilterZero, ToJSON, ToYAML, Clone, and
// Equal. These helpers rely on the Model contract and fail at compile time
// when applied to types that do not implement it.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the root interface combining all fundamental contracts required
// for typegraph model types. Any type implementing Model gains automatic
// support for validation, serialization to JSON and YAML, safe logging,
// type identification, and zero-value detection.
//
// Implementations MUST satisfy all embedded interfaces: Validatable checks
// invariants; Serializable provides round-trip JSON and YAML encoding;
// Loggable offers redacted and full string representations; Identifiable
// supplies a canonical type name; ZeroCheckable detects empty instances.
//
// Model instances are generally treated as immutable value types. Methods
// defined on Model SHOULD NOT mutate the receiver unless explicitly
// documented. Concurrent reads are safe; concurrent writes require external
// synchronization.
//
// Example implementation:
//
//	type Edge struct {
//	    Ancestor string
//	}
//
//	func (e Edge) Validate() error {
//	    if e.Ancestor == "" {
//	        return errors.New("ancestor required")
//	    }
//	    return nil
//	}
//
//	func (e Edge) TypeName() string { return "Edge" }
//	func (e Edge) IsZero() bool     { return e.Ancestor == "" }
//	func (e Edge) Redacted() string { return "Edge{...}" }
//	func (e Edge) String() string   { return "Edge{Ancestor:" + e.Ancestor + "}" }
//	// ... MarshalJSON, UnmarshalJSON, MarshalYAML, UnmarshalYAML
//
//	var _ Model = (*Edge)(nil)  // Compile-time check
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Validatable defines the contract for types that validate their own state
// to ensure data integrity. Every model type MUST implement Validate to
// verify that all invariants hold and that the instance is in a consistent
// state suitable for registration, serialization, or dispatch.
//
// The Validate method MUST check all required fields for non-empty or
// non-zero values, verify cross-field consistency (for example, that a
// static capability is not also marked mandatory), recursively validate any
// nested values by calling their Validate methods, and return nil if and
// only if the instance is fully valid. When validation fails, the returned
// error MUST describe what is invalid in a way that helps callers diagnose
// the problem. Prefer specific messages such as "Capability.Name MUST NOT
// be empty" over generic ones.
//
// Validate MUST be fast, deterministic, and idempotent. It MUST NOT mutate
// the receiver, MUST NOT have side effects, and MUST NOT depend on external
// mutable state.
//
// Callers SHOULD invoke Validate at critical boundaries: immediately after
// unmarshaling a definition document, after constructing descriptors from
// user input, and before registering a Definition with the registry. The
// registry itself validates everything it is handed; its
// construction-time error contract depends on it.
type Validatable interface {
	// Validate checks that the instance satisfies all invariants and is
	// ready for use. It returns nil if the instance is valid, or a
	// descriptive error explaining what is wrong.
	//
	// This method MUST NOT mutate the receiver and MUST NOT have side
	// effects. It MUST be safe to call concurrently with other reads but
	// not with concurrent writes.
	Validate() error
}

// Serializable defines the contract for types that can be serialized to and
// deserialized from JSON and YAML. All model types MUST support both
// formats: YAML is the declarative definition-document format, JSON serves
// API payloads and debugging output.
//
// Implementations MUST call Validate before marshaling so that only valid
// instances are serialized, and MUST call Validate after unmarshaling so
// that external input is rejected at the boundary. A value serialized to
// either format and then deserialized MUST equal the original value.
//
// Marshal methods are safe for concurrent use on immutable receivers.
// Unmarshal methods mutate the receiver and are not safe for concurrent
// use; callers MUST ensure exclusive access during unmarshaling.
//
// Implementations SHOULD use the "type alias" pattern to avoid infinite
// recursion: define a local alias of the model type, cast the receiver to
// the alias, and delegate to the encoder. This avoids re-entering the
// custom method.
//
// Example:
//
//	func (e Edge) MarshalJSON() ([]byte, error) {
//	    if err := e.Validate(); err != nil {
//	        return nil, fmt.Errorf("cannot marshal invalid %s: %w", e.TypeName(), err)
//	    }
//	    type alias Edge
//	    return json.Marshal((alias)(e))
//	}
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable defines the contract for types that provide string
// representations for logging and debugging.
//
// The Redacted method returns a representation suitable for production
// logging. Hierarchy descriptors carry no credentials or PII, so for most
// typegraph types Redacted and String coincide; the two methods are still
// kept distinct so that any future type carrying user-supplied field values
// can mask them without changing call sites. The redacted representation
// SHOULD include the type name and key identifying information to help
// correlate log entries with specific instances.
//
// Redacted MUST be fast because it is called on every structured log line.
// It SHOULD avoid allocations where possible and MUST NOT perform I/O. It
// MUST be safe to call concurrently and MUST NOT mutate the receiver.
//
// The String method returns the full human-readable representation and
// implements fmt.Stringer. It is intended for development, debugging, and
// test assertions.
type Loggable interface {
	// Redacted returns a string representation safe for production
	// logging.
	//
	// This method MUST NOT mutate the receiver, MUST NOT have side
	// effects, and MUST be safe to call concurrently.
	Redacted() string

	// String returns a human-readable representation of the instance.
	//
	// This method MUST NOT mutate the receiver, MUST NOT have side
	// effects, and MUST be safe to call concurrently.
	String() string
}

// Identifiable defines the contract for types that can identify themselves
// by a canonical type name. All model types MUST provide a type name to
// enable debugging, logging, and error reporting without reflection.
//
// The name returned by TypeName MUST be constant for a given type: all
// instances of the same type MUST return the same name. The name MUST be
// unique within typegraph, SHOULD follow CamelCase convention (for example,
// "Capability", "DuplicationPolicy"), and MUST NOT include a package
// prefix. The name identifies the type, not the instance.
//
// Type names appear in ValidationError.Type, in structured log fields, and
// in registry diagnostics.
//
// TypeName MUST be fast, MUST NOT allocate, and SHOULD return a string
// constant. It MUST NOT have side effects and MUST be safe to call
// concurrently.
type Identifiable interface {
	// TypeName returns the canonical name of this model type.
	TypeName() string
}

// ZeroCheckable defines the contract for types that can report whether they
// are in a zero or empty state. This enables optional field detection in
// definition documents and conditional logic based on whether an instance
// contains meaningful data.
//
// An instance is considered zero when no meaningful data is present. For
// enum types whose zero constant is a valid default (such as
// DuplicationPolicy, whose zero value is the shared policy), IsZero reports
// whether the value equals that default; the zero value being valid does
// not make it non-zero.
//
// IsZero MUST be fast, deterministic, and idempotent. It MUST NOT allocate,
// MUST NOT have side effects, and MUST be safe to call concurrently.
type ZeroCheckable interface {
	// IsZero reports whether the instance is semantically empty.
	IsZero() bool
}

// Comparable defines an optional contract for types that provide a typed
// equality check cheaper than the generic JSON-based Equal helper.
//
// Implementations MUST be reflexive, symmetric, and transitive, and MUST
// NOT mutate either operand. Types that implement Comparable SHOULD be
// compared through it rather than through Equal in hot paths.
type Comparable[T any] interface {
	// Equal reports whether the receiver and other represent the same
	// value.
	Equal(other T) bool
}

// Cloneable defines an optional contract for types that provide a deep copy
// cheaper than the generic JSON round-trip Clone helper.
//
// The returned copy MUST be fully independent of the receiver: mutating one
// MUST NOT affect the other.
type Cloneable[T any] interface {
	// Clone returns a deep copy of the receiver.
	Clone() T
}
