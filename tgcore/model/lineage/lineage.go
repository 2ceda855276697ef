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

package lineage

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
)

// AncestorsMaxCount bounds the number of direct ancestors a type may
// declare.
const AncestorsMaxCount = 8

// Edge is one direct derivation: the name of an ancestor type and the
// duplication policy applied when that ancestor (or one of its own
// ancestors) is reachable through more than one path.
//
// Edge order within a Lineage is significant: it fixes the relative
// construction order of sibling ancestors, the way base-class declaration
// order does.
type Edge struct {
	// Ancestor names the directly derived-from type. It must already be
	// registered when the declaring Definition is registered; this keeps
	// every lineage acyclic by construction.
	Ancestor string `json:"ancestor" yaml:"ancestor"`

	// Policy is the duplication policy this edge applies. The zero value
	// is PolicyShared.
	Policy DuplicationPolicy `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// Compile-time assertion that Edge implements model.Model.
var _ model.Model = (*Edge)(nil)

// String returns the full representation of the Edge for debugging.
func (e Edge) String() string {
	return fmt.Sprintf("Edge{Ancestor:%s, Policy:%s}", e.Ancestor, e.Policy)
}

// Redacted returns the logging form of the Edge, identical to String().
func (e Edge) Redacted() string {
	return e.String()
}

// TypeName returns "Edge" for error messages and diagnostics.
func (e Edge) TypeName() string {
	return "Edge"
}

// IsZero reports whether the Edge is empty.
func (e Edge) IsZero() bool {
	return e.Ancestor == "" && e.Policy.IsZero()
}

// Equal reports whether two Edges are identical.
func (e Edge) Equal(other Edge) bool {
	return e.Ancestor == other.Ancestor && e.Policy == other.Policy
}

// Validate checks that the ancestor name is a CamelCase type name and the
// policy is a known value.
func (e Edge) Validate() error {
	if e.Ancestor == "" {
		return &errors.ValidationError{
			Type:   e.TypeName(),
			Field:  "Ancestor",
			Reason: "must not be empty",
		}
	}
	if !typeNamePattern.MatchString(e.Ancestor) {
		return &errors.ValidationError{
			Type:   e.TypeName(),
			Field:  "Ancestor",
			Reason: fmt.Sprintf("%q is not a CamelCase type name", e.Ancestor),
			Value:  e.Ancestor,
		}
	}
	if err := e.Policy.Validate(); err != nil {
		return &errors.ValidationError{
			Type:   e.TypeName(),
			Field:  "Policy",
			Reason: fmt.Sprintf("invalid: %v", err),
		}
	}
	return nil
}

// MarshalJSON serializes the Edge after validation, using the type alias
// pattern to avoid recursion.
func (e Edge) MarshalJSON() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", e.TypeName(), err)
	}
	type alias Edge
	return json.Marshal((alias)(e))
}

// UnmarshalJSON deserializes and validates an Edge. On failure the
// receiver MUST NOT be used.
func (e *Edge) UnmarshalJSON(data []byte) error {
	type alias Edge
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return &errors.UnmarshalError{Type: e.TypeName(), Data: data, Reason: err.Error()}
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", e.TypeName(), err)
	}
	return nil
}

// MarshalYAML serializes the Edge after validation.
func (e Edge) MarshalYAML() (interface{}, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", e.TypeName(), err)
	}
	type alias Edge
	return (alias)(e), nil
}

// UnmarshalYAML deserializes and validates an Edge. On failure the
// receiver MUST NOT be used.
func (e *Edge) UnmarshalYAML(node *yaml.Node) error {
	type alias Edge
	if err := node.Decode((*alias)(e)); err != nil {
		return &errors.UnmarshalError{Type: e.TypeName(), Reason: err.Error()}
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", e.TypeName(), err)
	}
	return nil
}

// Lineage is the ordered list of a type's direct derivations.
//
// An empty Lineage declares a root type. A single edge is single
// inheritance; chains of single edges across definitions form multilevel
// inheritance; several edges are multiple inheritance; and several edges
// whose ancestors converge on a common root form a diamond, resolved per
// the edges' duplication policies.
//
// Lineage is pure description. The registry owns the cross-type
// reasoning: ancestor existence, policy agreement along converging paths,
// and frame planning.
type Lineage struct {
	// Edges lists the direct ancestors in declaration order.
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Compile-time assertion that Lineage implements model.Model.
var _ model.Model = (*Lineage)(nil)

// IsRoot reports whether the Lineage declares no ancestors.
func (l Lineage) IsRoot() bool {
	return len(l.Edges) == 0
}

// Ancestors returns the direct ancestor names in declaration order.
func (l Lineage) Ancestors() []string {
	names := make([]string, 0, len(l.Edges))
	for _, e := range l.Edges {
		names = append(names, e.Ancestor)
	}
	return names
}

// String returns the full representation of the Lineage for debugging.
func (l Lineage) String() string {
	if l.IsRoot() {
		return "Lineage{root}"
	}
	parts := make([]string, 0, len(l.Edges))
	for _, e := range l.Edges {
		parts = append(parts, e.Ancestor+":"+e.Policy.String())
	}
	return "Lineage{" + strings.Join(parts, ", ") + "}"
}

// Redacted returns the logging form of the Lineage, identical to
// String().
func (l Lineage) Redacted() string {
	return l.String()
}

// TypeName returns "Lineage" for error messages and diagnostics.
func (l Lineage) TypeName() string {
	return "Lineage"
}

// IsZero reports whether the Lineage declares no ancestors. A root
// lineage is zero and valid; roots are ordinary.
func (l Lineage) IsZero() bool {
	return len(l.Edges) == 0
}

// Equal reports whether two Lineages declare the same edges in the same
// order.
func (l Lineage) Equal(other Lineage) bool {
	if len(l.Edges) != len(other.Edges) {
		return false
	}
	for i := range l.Edges {
		if !l.Edges[i].Equal(other.Edges[i]) {
			return false
		}
	}
	return true
}

// Validate checks every edge and rejects duplicate direct ancestors.
//
// Deriving from the same type twice directly is meaningless under either
// policy (the paths would be textually indistinguishable), so it is a
// validation error rather than a registry concern.
func (l Lineage) Validate() error {
	if len(l.Edges) > AncestorsMaxCount {
		return &errors.ValidationError{
			Type:   l.TypeName(),
			Field:  "Edges",
			Reason: fmt.Sprintf("has too many ancestors: %d (maximum %d)", len(l.Edges), AncestorsMaxCount),
		}
	}

	seen := make(map[string]bool, len(l.Edges))
	for i, e := range l.Edges {
		if err := e.Validate(); err != nil {
			return &errors.ValidationError{
				Type:   l.TypeName(),
				Field:  fmt.Sprintf("Edges[%d]", i),
				Reason: fmt.Sprintf("invalid: %v", err),
			}
		}
		if seen[e.Ancestor] {
			return &errors.ValidationError{
				Type:   l.TypeName(),
				Field:  fmt.Sprintf("Edges[%d]", i),
				Reason: fmt.Sprintf("duplicate direct ancestor %s", e.Ancestor),
			}
		}
		seen[e.Ancestor] = true
	}

	return nil
}

// MarshalJSON serializes the Lineage after validation, using the type
// alias pattern to avoid recursion.
func (l Lineage) MarshalJSON() ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", l.TypeName(), err)
	}
	type alias Lineage
	return json.Marshal((alias)(l))
}

// UnmarshalJSON deserializes and validates a Lineage. On failure the
// receiver MUST NOT be used.
func (l *Lineage) UnmarshalJSON(data []byte) error {
	type alias Lineage
	if err := json.Unmarshal(data, (*alias)(l)); err != nil {
		return &errors.UnmarshalError{Type: l.TypeName(), Data: data, Reason: err.Error()}
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", l.TypeName(), err)
	}
	return nil
}

// MarshalYAML serializes the Lineage after validation.
func (l Lineage) MarshalYAML() (interface{}, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", l.TypeName(), err)
	}
	type alias Lineage
	return (alias)(l), nil
}

// UnmarshalYAML deserializes and validates a Lineage. On failure the
// receiver MUST NOT be used.
func (l *Lineage) UnmarshalYAML(node *yaml.Node) error {
	type alias Lineage
	if err := node.Decode((*alias)(l)); err != nil {
		return &errors.UnmarshalError{Type: l.TypeName(), Reason: err.Error()}
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", l.TypeName(), err)
	}
	return nil
}
