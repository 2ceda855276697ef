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

// Package lineage describes how entity types derive from one another: the
// direct-ancestor edges of a type, the duplication policy each edge
// applies to shared ancestors, and the explicit path qualifiers used to
// disambiguate state reachable through more than one route.
//
// A lineage is a directed acyclic relation. When two intermediate
// ancestors both derive from one root, the edges' duplication policies
// decide whether the root's state exists once (shared, the resolved
// diamond) or once per path (unique, the ambiguous diamond). typegraph
// treats the policy as explicit per-edge data rather than a property of
// the language, so both behaviors stay constructible and testable side by
// side.
package lineage

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
)

// DuplicationPolicy decides how many copies of an ancestor's state a
// derived entity carries when the ancestor is reachable through more than
// one inheritance path.
//
// Under PolicyShared the ancestor contributes exactly one state frame no
// matter how many paths reach it, and the most-derived constructor
// initializes that frame exactly once. Under PolicyUnique the ancestor
// contributes one frame per path, each initialized separately, and any
// access to the ancestor's fields must name its path explicitly; an
// unqualified access is rejected with an AmbiguityError.
//
// The policy attaches to the derivation edge, mirroring how virtual
// inheritance attaches to the `: virtual public Base` clause rather than
// to the base class itself. All edges reaching a given ancestor from one
// type must agree; Registry.Register rejects mixed policies for the same
// ancestor.
type DuplicationPolicy int

const (
	// PolicyShared unifies the ancestor into a single state frame
	// regardless of how many paths reach it.
	//
	// This is the zero value: diamonds resolve to one copy unless a
	// definition explicitly opts into duplication. It corresponds to
	// virtual inheritance.
	PolicyShared DuplicationPolicy = iota

	// PolicyUnique duplicates the ancestor's state once per inheritance
	// path.
	//
	// This reproduces the classic diamond ambiguity: the ancestor's
	// fields become reachable through several frames and require explicit
	// path qualification.
	PolicyUnique
)

// String constants for DuplicationPolicy values used in serialization,
// parsing, and human-facing output.
const (
	PolicySharedStr = "shared"
	PolicyUniqueStr = "unique"
)

// ParseDuplicationPolicy parses a string into a validated
// DuplicationPolicy value.
//
// Input is normalized with strings.TrimSpace and strings.ToLower. Besides
// the canonical names, the aliases "virtual" (shared) and "duplicated"
// (unique) are accepted.
//
// Any other input yields PolicyShared and a *errors.ParseError.
func ParseDuplicationPolicy(s string) (DuplicationPolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case PolicySharedStr, "virtual":
		return PolicyShared, nil
	case PolicyUniqueStr, "duplicated":
		return PolicyUnique, nil
	default:
		return PolicyShared, &errors.ParseError{Type: "DuplicationPolicy", Value: s}
	}
}

// Compile-time assertion that DuplicationPolicy implements model.Model.
var _ model.Model = (*DuplicationPolicy)(nil)

// String returns the canonical string representation: "shared" or
// "unique", or "unknown" for values outside the defined set.
func (p DuplicationPolicy) String() string {
	switch p {
	case PolicyShared:
		return PolicySharedStr
	case PolicyUnique:
		return PolicyUniqueStr
	default:
		return "unknown"
	}
}

// Redacted returns the logging form of the policy, identical to String().
func (p DuplicationPolicy) Redacted() string {
	return p.String()
}

// TypeName returns "DuplicationPolicy" for error messages and diagnostics.
func (p DuplicationPolicy) TypeName() string {
	return "DuplicationPolicy"
}

// IsZero reports whether the policy is the default, PolicyShared.
func (p DuplicationPolicy) IsZero() bool {
	return p == PolicyShared
}

// Equal reports whether two DuplicationPolicy values are the same.
func (p DuplicationPolicy) Equal(other DuplicationPolicy) bool {
	return p == other
}

// Validate checks whether this DuplicationPolicy is a known value,
// returning a *errors.ValidationError otherwise.
func (p DuplicationPolicy) Validate() error {
	switch p {
	case PolicyShared, PolicyUnique:
		return nil
	default:
		return &errors.ValidationError{
			Type:   p.TypeName(),
			Reason: fmt.Sprintf("value %d is not a known duplication policy", int(p)),
		}
	}
}

// MarshalJSON serializes the policy as its canonical string after
// validation.
func (p DuplicationPolicy) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: p.TypeName(), Value: int(p)}
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON deserializes a policy from a JSON string with
// ParseDuplicationPolicy's normalization. On failure the receiver is left
// unmodified.
func (p *DuplicationPolicy) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Data: data, Reason: err.Error()}
	}

	parsed, err := ParseDuplicationPolicy(str)
	if err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Data: data, Reason: err.Error()}
	}

	*p = parsed
	return nil
}

// MarshalYAML serializes the policy as its canonical string after
// validation.
func (p DuplicationPolicy) MarshalYAML() (interface{}, error) {
	if err := p.Validate(); err != nil {
		return nil, &errors.MarshalError{Type: p.TypeName(), Value: int(p)}
	}
	return p.String(), nil
}

// UnmarshalYAML deserializes a policy from a YAML string node with
// ParseDuplicationPolicy's normalization. On failure the receiver is left
// unmodified.
func (p *DuplicationPolicy) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Reason: err.Error()}
	}

	parsed, err := ParseDuplicationPolicy(str)
	if err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Reason: err.Error()}
	}

	*p = parsed
	return nil
}
