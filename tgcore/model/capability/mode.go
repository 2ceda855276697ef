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

// Package capability defines the capability vocabulary of typegraph: named
// operations an entity type must or may provide, each classified by how
// invocations resolve (DispatchMode) and by whether a default
// implementation exists (Binding).
//
// A capability is the typegraph counterpart of a member function. The two
// dispatch modes correspond to the two resolution rules every
// object-oriented runtime distinguishes: overridable capabilities resolve
// against the concrete type of the entity behind a reference (late
// binding), while static capabilities resolve against the declared type of
// the reference itself (early binding). typegraph keeps both categories
// explicit and queryable so that consumers can observe, and tests can pin
// down, exactly which rule applied to a given invocation.
package capability

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
)

// DispatchMode classifies how an invocation of a capability is resolved to
// an implementation.
//
// ModeOverridable is late binding: the registry consults the dispatch table
// of the entity's concrete type, walking the lineage for inherited
// implementations, regardless of the static type of the reference the call
// was made through. ModeStatic is early binding: the registry consults the
// dispatch table of the reference's declared type and never looks at the
// concrete type.
//
// The mode also governs destruction. A Definition whose Destructor mode is
// ModeOverridable releases the most-derived layer first even when destroyed
// through an ancestor reference; ModeStatic releases only the static
// layer's ancestry and leaves more-derived state unreleased, which is the
// reproducible leak scenario the library deliberately preserves.
type DispatchMode int

const (
	// ModeOverridable resolves invocations by the concrete (runtime) type
	// of the entity.
	//
	// This is the zero value: capabilities dispatch late unless a
	// definition explicitly opts a capability out. An overridable
	// capability invoked through an ancestor-capability reference runs the
	// most-derived implementation found along the lineage.
	ModeOverridable DispatchMode = iota

	// ModeStatic resolves invocations by the declared (static) type of the
	// reference.
	//
	// A static capability redeclared by a derived type shadows the
	// ancestor's version only for references whose static type is the
	// derived type; through an ancestor-typed reference the ancestor's
	// implementation runs. This mirrors compile-time resolution of
	// non-virtual and overloaded operations.
	ModeStatic
)

// String constants for DispatchMode values used in serialization, parsing,
// and human-facing output.
//
// These names form the stable external representation of DispatchMode and
// MAY appear in definition documents and JSON/YAML payloads. Changing them
// is a breaking change for textual configuration.
const (
	ModeOverridableStr = "overridable"
	ModeStaticStr      = "static"
)

// ParseDispatchMode parses a string into a validated DispatchMode value.
//
// Input is normalized with strings.TrimSpace and strings.ToLower before
// matching. Besides the canonical names, the C++-flavored aliases
// "virtual" (for overridable) and "non-virtual"/"nonvirtual" (for static)
// are accepted, since definition documents describing classic hierarchies
// tend to use them.
//
// Any other input is invalid and yields ModeOverridable together with a
// *errors.ParseError carrying the original string.
func ParseDispatchMode(s string) (DispatchMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case ModeOverridableStr, "virtual":
		return ModeOverridable, nil
	case ModeStaticStr, "non-virtual", "nonvirtual":
		return ModeStatic, nil
	default:
		return ModeOverridable, &errors.ParseError{Type: "DispatchMode", Value: s}
	}
}

// Compile-time assertion that DispatchMode implements model.Model.
var _ model.Model = (*DispatchMode)(nil)

// String returns the canonical string representation of the DispatchMode.
//
// The mapping is:
//
//	ModeOverridable -> "overridable"
//	ModeStatic      -> "static"
//
// If the value is not one of the defined constants, String returns
// "unknown". Callers that need only valid values SHOULD call Validate
// first.
func (m DispatchMode) String() string {
	switch m {
	case ModeOverridable:
		return ModeOverridableStr
	case ModeStatic:
		return ModeStaticStr
	default:
		return "unknown"
	}
}

// Redacted returns the logging form of the DispatchMode.
//
// Dispatch modes carry nothing sensitive, so the redacted form is the
// String() value.
func (m DispatchMode) Redacted() string {
	return m.String()
}

// TypeName returns "DispatchMode" for error messages and diagnostics.
func (m DispatchMode) TypeName() string {
	return "DispatchMode"
}

// IsZero reports whether the mode is the default, ModeOverridable.
//
// The zero value is valid; IsZero only signals that a definition did not
// opt the capability out of late binding.
func (m DispatchMode) IsZero() bool {
	return m == ModeOverridable
}

// Equal reports whether two DispatchMode values are the same.
func (m DispatchMode) Equal(other DispatchMode) bool {
	return m == other
}

// Validate checks whether this DispatchMode is a known value.
//
// Validate returns nil for ModeOverridable and ModeStatic, and a
// *errors.ValidationError for anything else, preventing corrupted values
// from propagating through serialization or the registry.
func (m DispatchMode) Validate() error {
	switch m {
	case ModeOverridable, ModeStatic:
		return nil
	default:
		return &errors.ValidationError{
			Type:   m.TypeName(),
			Reason: fmt.Sprintf("value %d is not a known dispatch mode", int(m)),
		}
	}
}

// MarshalJSON serializes the DispatchMode as its canonical string.
//
// The value is validated first; marshaling an unknown mode returns a
// *errors.MarshalError.
func (m DispatchMode) MarshalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: m.TypeName(), Value: int(m)}
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON deserializes a DispatchMode from a JSON string, applying
// the same normalization and alias handling as ParseDispatchMode. On
// failure the receiver is left unmodified.
func (m *DispatchMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &errors.UnmarshalError{Type: m.TypeName(), Data: data, Reason: err.Error()}
	}

	parsed, err := ParseDispatchMode(str)
	if err != nil {
		return &errors.UnmarshalError{Type: m.TypeName(), Data: data, Reason: err.Error()}
	}

	*m = parsed
	return nil
}

// MarshalYAML serializes the DispatchMode as its canonical string after
// validation.
func (m DispatchMode) MarshalYAML() (interface{}, error) {
	if err := m.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: m.TypeName(), Value: int(m)}
	}
	return m.String(), nil
}

// UnmarshalYAML deserializes a DispatchMode from a YAML string node,
// applying the same normalization and alias handling as
// ParseDispatchMode. On failure the receiver is left unmodified.
func (m *DispatchMode) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: m.TypeName(), Reason: err.Error()}
	}

	parsed, err := ParseDispatchMode(str)
	if err != nil {
		return &errors.UnmarshalError{Type: m.TypeName(), Reason: err.Error()}
	}

	*m = parsed
	return nil
}
