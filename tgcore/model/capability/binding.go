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

package capability

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
)

// Binding classifies whether a capability ships with a default
// implementation.
//
// A mandatory capability has none: every concrete entity type reachable
// from the declaring type must supply (or inherit from an intermediate
// ancestor) an implementation before it can be constructed. A type with
// any uncovered mandatory capability is abstract and may only serve as the
// static type of a reference, never be instantiated; the registry
// enforces this at construction time with a ConstructionError.
//
// A defaulted capability carries an implementation at its declaring type;
// derived types may override it but are instantiable without doing so.
// This is the pure-virtual versus virtual-with-body distinction, held as
// data.
type Binding int

const (
	// BindingMandatory marks a capability with no default implementation.
	//
	// This is the zero value: declaring a capability without a binding
	// makes it part of the type's abstract contract. Concrete descendants
	// must cover it to be instantiable.
	BindingMandatory Binding = iota

	// BindingDefaulted marks a capability whose declaring type provides an
	// implementation that descendants inherit.
	BindingDefaulted
)

// String constants for Binding values used in serialization, parsing, and
// human-facing output.
const (
	BindingMandatoryStr = "mandatory"
	BindingDefaultedStr = "defaulted"
)

// ParseBinding parses a string into a validated Binding value.
//
// Input is normalized with strings.TrimSpace and strings.ToLower. Besides
// the canonical names, the aliases "pure" (mandatory, as in pure virtual)
// and "default" (defaulted) are accepted.
//
// Any other input yields BindingMandatory and a *errors.ParseError.
func ParseBinding(s string) (Binding, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case BindingMandatoryStr, "pure":
		return BindingMandatory, nil
	case BindingDefaultedStr, "default":
		return BindingDefaulted, nil
	default:
		return BindingMandatory, &errors.ParseError{Type: "Binding", Value: s}
	}
}

// Compile-time assertion that Binding implements model.Model.
var _ model.Model = (*Binding)(nil)

// String returns the canonical string representation of the Binding:
// "mandatory" or "defaulted", or "unknown" for values outside the defined
// set.
func (b Binding) String() string {
	switch b {
	case BindingMandatory:
		return BindingMandatoryStr
	case BindingDefaulted:
		return BindingDefaultedStr
	default:
		return "unknown"
	}
}

// Redacted returns the logging form of the Binding, identical to String().
func (b Binding) Redacted() string {
	return b.String()
}

// TypeName returns "Binding" for error messages and diagnostics.
func (b Binding) TypeName() string {
	return "Binding"
}

// IsZero reports whether the binding is the default, BindingMandatory.
func (b Binding) IsZero() bool {
	return b == BindingMandatory
}

// Equal reports whether two Binding values are the same.
func (b Binding) Equal(other Binding) bool {
	return b == other
}

// Validate checks whether this Binding is a known value, returning a
// *errors.ValidationError otherwise.
func (b Binding) Validate() error {
	switch b {
	case BindingMandatory, BindingDefaulted:
		return nil
	default:
		return &errors.ValidationError{
			Type:   b.TypeName(),
			Reason: fmt.Sprintf("value %d is not a known binding", int(b)),
		}
	}
}

// MarshalJSON serializes the Binding as its canonical string after
// validation.
func (b Binding) MarshalJSON() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: b.TypeName(), Value: int(b)}
	}
	return json.Marshal(b.String())
}

// UnmarshalJSON deserializes a Binding from a JSON string with
// ParseBinding's normalization. On failure the receiver is left
// unmodified.
func (b *Binding) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &errors.UnmarshalError{Type: b.TypeName(), Data: data, Reason: err.Error()}
	}

	parsed, err := ParseBinding(str)
	if err != nil {
		return &errors.UnmarshalError{Type: b.TypeName(), Data: data, Reason: err.Error()}
	}

	*b = parsed
	return nil
}

// MarshalYAML serializes the Binding as its canonical string after
// validation.
func (b Binding) MarshalYAML() (interface{}, error) {
	if err := b.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: b.TypeName(), Value: int(b)}
	}
	return b.String(), nil
}

// UnmarshalYAML deserializes a Binding from a YAML string node with
// ParseBinding's normalization. On failure the receiver is left
// unmodified.
func (b *Binding) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: b.TypeName(), Reason: err.Error()}
	}

	parsed, err := ParseBinding(str)
	if err != nil {
		return &errors.UnmarshalError{Type: b.TypeName(), Reason: err.Error()}
	}

	*b = parsed
	return nil
}
