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

package registry

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	bsemver "github.com/blang/semver/v4"
	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
	"typegraph.dev/typegraph/tgcore/model/capability"
	"typegraph.dev/typegraph/tgcore/model/lineage"
)

// FieldsMaxCount bounds the number of owned fields a single type may
// declare.
const FieldsMaxCount = 32

var (
	// typeNamePattern matches valid entity type names (CamelCase).
	typeNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

	// fieldNamePattern matches valid field names (lowerCamel).
	fieldNamePattern = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
)

// Definition describes one entity type: its name, its lineage, the
// capabilities it introduces, the fields it exclusively owns, and how its
// destruction dispatches.
//
// A Definition is declarative and serializable; implementations are bound
// separately through Registry.Implement so that hierarchy shape can live in
// YAML definition documents while behavior stays in code.
//
// Whether a Definition is abstract is not stored: it is derived at
// construction time from the mandatory capabilities visible along the
// lineage and the implementations actually bound, so the answer can never
// go stale.
type Definition struct {
	// Name is the entity type's identifier, unique within a Registry,
	// CamelCase.
	Name string `json:"name" yaml:"name"`

	// Schema optionally versions the definition itself, as a semantic
	// version string ("1.0.0"). Empty means unversioned. Definition
	// documents loaded through LoadDefinitions have tolerant inputs
	// ("v1.2") normalized to canonical form.
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Lineage lists the type's direct ancestors in declaration order.
	Lineage lineage.Lineage `json:"lineage,omitempty" yaml:"lineage,omitempty"`

	// Destructor selects how Destroy dispatches when this type is the
	// static type of the reference being destroyed. ModeOverridable (the
	// zero value) releases the most-derived layer first; ModeStatic binds
	// destruction to this layer and its ancestry only, leaving
	// more-derived state unreleased.
	Destructor capability.DispatchMode `json:"destructor,omitempty" yaml:"destructor,omitempty"`

	// Declares lists the capabilities this type introduces. Capabilities
	// declared by ancestors are inherited, not redeclared.
	Declares []capability.Capability `json:"declares,omitempty" yaml:"declares,omitempty"`

	// Fields names the state this type exclusively owns, one entry per
	// field, lowerCamel. Every instance carries one copy of these per
	// state frame of this type.
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// SchemaVersion parses the Schema field into a semantic version. Returns
// the zero version for an unversioned definition.
func (d Definition) SchemaVersion() (bsemver.Version, error) {
	if d.Schema == "" {
		return bsemver.Version{}, nil
	}
	v, err := bsemver.Parse(d.Schema)
	if err != nil {
		return bsemver.Version{}, fmt.Errorf("definition %s: %w", d.Name, err)
	}
	return v, nil
}

// Compile-time assertion that Definition implements model.Model.
var _ model.Model = (*Definition)(nil)

// String returns a full single-line representation of the Definition for
// debugging and test output.
func (d Definition) String() string {
	caps := make([]string, 0, len(d.Declares))
	for _, c := range d.Declares {
		caps = append(caps, c.Name)
	}
	return fmt.Sprintf("Definition{Name:%s, Lineage:%s, Destructor:%s, Declares:[%s], Fields:[%s]}",
		d.Name, d.Lineage, d.Destructor, strings.Join(caps, " "), strings.Join(d.Fields, " "))
}

// Redacted returns a compact logging form: the name, ancestor count, and
// capability count, without field names.
func (d Definition) Redacted() string {
	return fmt.Sprintf("Definition{Name:%s, Ancestors:%d, Declares:%d}",
		d.Name, len(d.Lineage.Edges), len(d.Declares))
}

// TypeName returns "Definition" for error messages and diagnostics.
func (d Definition) TypeName() string {
	return "Definition"
}

// IsZero reports whether the Definition is empty.
func (d Definition) IsZero() bool {
	return d.Name == "" && d.Schema == "" && d.Lineage.IsZero() &&
		d.Destructor.IsZero() && len(d.Declares) == 0 && len(d.Fields) == 0
}

// Equal reports whether two Definitions are identical.
func (d Definition) Equal(other Definition) bool {
	if d.Name != other.Name || d.Schema != other.Schema || d.Destructor != other.Destructor {
		return false
	}
	if !d.Lineage.Equal(other.Lineage) {
		return false
	}
	if len(d.Declares) != len(other.Declares) || len(d.Fields) != len(other.Fields) {
		return false
	}
	for i := range d.Declares {
		if !d.Declares[i].Equal(other.Declares[i]) {
			return false
		}
	}
	for i := range d.Fields {
		if d.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// Validate checks the Definition's local invariants: name shape, schema
// syntax, lineage validity, destructor mode, capability declarations
// (including uniqueness among the type's own declarations), and field
// names (unique, lowerCamel, bounded).
//
// Cross-type invariants (ancestor existence, policy agreement, capability
// collisions along the lineage) are the registry's concern and are checked
// at Register time.
func (d Definition) Validate() error {
	if d.Name == "" {
		return &errors.ValidationError{
			Type:   d.TypeName(),
			Field:  "Name",
			Reason: "must not be empty",
		}
	}
	if !typeNamePattern.MatchString(d.Name) {
		return &errors.ValidationError{
			Type:   d.TypeName(),
			Field:  "Name",
			Reason: fmt.Sprintf("%q is not a CamelCase type name", d.Name),
			Value:  d.Name,
		}
	}

	if _, err := d.SchemaVersion(); err != nil {
		return &errors.ValidationError{
			Type:   d.TypeName(),
			Field:  "Schema",
			Reason: fmt.Sprintf("%q is not a semantic version", d.Schema),
			Value:  d.Schema,
		}
	}

	if err := d.Lineage.Validate(); err != nil {
		return &errors.ValidationError{
			Type:   d.TypeName(),
			Field:  "Lineage",
			Reason: fmt.Sprintf("invalid: %v", err),
		}
	}
	for i, e := range d.Lineage.Edges {
		if e.Ancestor == d.Name {
			return &errors.ValidationError{
				Type:   d.TypeName(),
				Field:  fmt.Sprintf("Lineage.Edges[%d]", i),
				Reason: "type cannot derive from itself",
			}
		}
	}

	if err := d.Destructor.Validate(); err != nil {
		return &errors.ValidationError{
			Type:   d.TypeName(),
			Field:  "Destructor",
			Reason: fmt.Sprintf("invalid: %v", err),
		}
	}

	seenCaps := make(map[string]bool, len(d.Declares))
	for i, c := range d.Declares {
		if err := c.Validate(); err != nil {
			return &errors.ValidationError{
				Type:   d.TypeName(),
				Field:  fmt.Sprintf("Declares[%d]", i),
				Reason: fmt.Sprintf("invalid: %v", err),
			}
		}
		if seenCaps[c.Name] {
			return &errors.ValidationError{
				Type:   d.TypeName(),
				Field:  fmt.Sprintf("Declares[%d]", i),
				Reason: fmt.Sprintf("duplicate capability %s", c.Name),
			}
		}
		seenCaps[c.Name] = true
	}

	if len(d.Fields) > FieldsMaxCount {
		return &errors.ValidationError{
			Type:   d.TypeName(),
			Field:  "Fields",
			Reason: fmt.Sprintf("has too many fields: %d (maximum %d)", len(d.Fields), FieldsMaxCount),
		}
	}
	seenFields := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if !fieldNamePattern.MatchString(f) {
			return &errors.ValidationError{
				Type:   d.TypeName(),
				Field:  fmt.Sprintf("Fields[%d]", i),
				Reason: fmt.Sprintf("%q is not a lowerCamel field name", f),
				Value:  f,
			}
		}
		if seenFields[f] {
			return &errors.ValidationError{
				Type:   d.TypeName(),
				Field:  fmt.Sprintf("Fields[%d]", i),
				Reason: fmt.Sprintf("duplicate field %s", f),
			}
		}
		seenFields[f] = true
	}

	return nil
}

// OwnsField reports whether this Definition declares the named field.
func (d Definition) OwnsField(name string) bool {
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// MarshalJSON serializes the Definition after validation, using the type
// alias pattern to avoid recursion.
func (d Definition) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", d.TypeName(), err)
	}
	type alias Definition
	return json.Marshal((alias)(d))
}

// UnmarshalJSON deserializes and validates a Definition. On failure the
// receiver MUST NOT be used.
func (d *Definition) UnmarshalJSON(data []byte) error {
	type alias Definition
	if err := json.Unmarshal(data, (*alias)(d)); err != nil {
		return &errors.UnmarshalError{Type: d.TypeName(), Data: data, Reason: err.Error()}
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", d.TypeName(), err)
	}
	return nil
}

// MarshalYAML serializes the Definition after validation.
func (d Definition) MarshalYAML() (interface{}, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", d.TypeName(), err)
	}
	type alias Definition
	return (alias)(d), nil
}

// UnmarshalYAML deserializes and validates a Definition. On failure the
// receiver MUST NOT be used.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	type alias Definition
	if err := node.Decode((*alias)(d)); err != nil {
		return &errors.UnmarshalError{Type: d.TypeName(), Reason: err.Error()}
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", d.TypeName(), err)
	}
	return nil
}
