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
	"regexp"

	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
)

// NameMaxLen is the maximum byte length of a capability name.
const NameMaxLen = 64

// namePattern matches valid capability names: a lowercase letter followed
// by letters and digits (lowerCamel identifiers such as "area",
// "computeMetric", "describe").
var namePattern = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)

// Capability declares a named operation on an entity type.
//
// A Capability is pure declaration: the implementation is bound separately
// through the registry (Registry.Implement), keeping the descriptor a
// serializable value that can live in definition documents. Name identifies
// the operation within the hierarchy; Mode selects the resolution rule for
// invocations; Binding records whether a default implementation exists at
// the declaring type.
//
// Capabilities are inherited. A type whose lineage reaches a declaring
// ancestor exposes the capability without redeclaring it, and an
// implementation bound at an intermediate ancestor covers all descendants
// that do not override it.
//
// Invariant: a static capability cannot be mandatory. Static resolution
// never consults the concrete type, so "must be overridden by the concrete
// type" would be unobservable; Validate rejects the combination.
type Capability struct {
	// Name is the operation's identifier, unique among the capabilities
	// visible from any one type.
	Name string `json:"name" yaml:"name"`

	// Mode selects how invocations resolve: by concrete type
	// (ModeOverridable, the default) or by the reference's declared type
	// (ModeStatic).
	Mode DispatchMode `json:"mode" yaml:"mode"`

	// Binding records whether the declaring type supplies a default
	// implementation (BindingDefaulted) or concrete descendants must
	// provide one (BindingMandatory, the default).
	Binding Binding `json:"binding" yaml:"binding"`
}

// New constructs a validated Capability.
//
// The returned Capability is ready for inclusion in a Definition; invalid
// combinations (empty or malformed name, static mandatory capability) are
// reported immediately rather than at registration time.
func New(name string, mode DispatchMode, binding Binding) (Capability, error) {
	c := Capability{Name: name, Mode: mode, Binding: binding}
	if err := c.Validate(); err != nil {
		return Capability{}, err
	}
	return c, nil
}

// Compile-time assertion that Capability implements model.Model.
var _ model.Model = (*Capability)(nil)

// String returns the full representation of the Capability, including mode
// and binding, for debugging and test output.
func (c Capability) String() string {
	return fmt.Sprintf("Capability{Name:%s, Mode:%s, Binding:%s}", c.Name, c.Mode, c.Binding)
}

// Redacted returns the logging form of the Capability. Declarations carry
// nothing sensitive, so this is the String() value.
func (c Capability) Redacted() string {
	return c.String()
}

// TypeName returns "Capability" for error messages and diagnostics.
func (c Capability) TypeName() string {
	return "Capability"
}

// IsZero reports whether the Capability is empty (no name and both
// classifiers at their zero values).
func (c Capability) IsZero() bool {
	return c.Name == "" && c.Mode.IsZero() && c.Binding.IsZero()
}

// Equal reports whether two Capability declarations are identical.
func (c Capability) Equal(other Capability) bool {
	return c.Name == other.Name && c.Mode == other.Mode && c.Binding == other.Binding
}

// Validate checks the Capability's invariants.
//
// The name must be non-empty, at most NameMaxLen bytes, and a lowerCamel
// identifier. Mode and Binding must be known values, and the static
// mandatory combination is rejected.
func (c Capability) Validate() error {
	if c.Name == "" {
		return &errors.ValidationError{
			Type:   c.TypeName(),
			Field:  "Name",
			Reason: "must not be empty",
		}
	}
	if len(c.Name) > NameMaxLen {
		return &errors.ValidationError{
			Type:   c.TypeName(),
			Field:  "Name",
			Reason: fmt.Sprintf("exceeds maximum length of %d bytes (got %d)", NameMaxLen, len(c.Name)),
		}
	}
	if !namePattern.MatchString(c.Name) {
		return &errors.ValidationError{
			Type:   c.TypeName(),
			Field:  "Name",
			Reason: fmt.Sprintf("%q is not a lowerCamel identifier", c.Name),
			Value:  c.Name,
		}
	}

	if err := c.Mode.Validate(); err != nil {
		return &errors.ValidationError{
			Type:   c.TypeName(),
			Field:  "Mode",
			Reason: fmt.Sprintf("invalid: %v", err),
		}
	}
	if err := c.Binding.Validate(); err != nil {
		return &errors.ValidationError{
			Type:   c.TypeName(),
			Field:  "Binding",
			Reason: fmt.Sprintf("invalid: %v", err),
		}
	}

	if c.Mode == ModeStatic && c.Binding == BindingMandatory {
		return &errors.ValidationError{
			Type:   c.TypeName(),
			Field:  "Binding",
			Reason: "static capability cannot be mandatory (static resolution never reaches the concrete type)",
		}
	}

	return nil
}

// MarshalJSON serializes the Capability after validation, using the type
// alias pattern to avoid recursion.
func (c Capability) MarshalJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", c.TypeName(), err)
	}
	type alias Capability
	return json.Marshal((alias)(c))
}

// UnmarshalJSON deserializes and validates a Capability. On failure the
// receiver MUST NOT be used.
func (c *Capability) UnmarshalJSON(data []byte) error {
	type alias Capability
	if err := json.Unmarshal(data, (*alias)(c)); err != nil {
		return &errors.UnmarshalError{Type: c.TypeName(), Data: data, Reason: err.Error()}
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", c.TypeName(), err)
	}
	return nil
}

// MarshalYAML serializes the Capability after validation, using the type
// alias pattern to avoid recursion.
func (c Capability) MarshalYAML() (interface{}, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", c.TypeName(), err)
	}
	type alias Capability
	return (alias)(c), nil
}

// UnmarshalYAML deserializes and validates a Capability. On failure the
// receiver MUST NOT be used.
func (c *Capability) UnmarshalYAML(node *yaml.Node) error {
	type alias Capability
	if err := node.Decode((*alias)(c)); err != nil {
		return &errors.UnmarshalError{Type: c.TypeName(), Reason: err.Error()}
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", c.TypeName(), err)
	}
	return nil
}
