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
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
)

// PathSeparator joins the segments of a Path's textual form.
const PathSeparator = "/"

// PathMaxDepth bounds the number of segments in a Path. Hierarchies deeper
// than this are almost certainly definition errors.
const PathMaxDepth = 16

// typeNamePattern matches valid entity type names: an uppercase letter
// followed by letters and digits (CamelCase, such as "Shape", "Circle",
// "TeachingAssistant").
var typeNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// Path is an explicit ancestor qualifier: the chain of type names leading
// from a direct ancestor of the entity's concrete type down to the type
// whose state frame is being addressed.
//
// Path is typegraph's API-level replacement for language scope resolution.
// Where C++ writes ta.Student::name, typegraph writes the path
// "Student/Person" handed to Registry.ResolveField. Under the unique
// duplication policy a diamond root exists once per path, and only a Path
// distinguishes the copies; under the shared policy a Path is accepted but
// redundant.
//
// The textual form joins segments with "/". Each segment must be a
// CamelCase type name.
type Path []string

// ParsePath parses a slash-separated qualifier string into a validated
// Path.
//
// Segments are trimmed of surrounding whitespace. An empty string, an
// empty segment, a malformed type name, or a chain deeper than
// PathMaxDepth yields a *errors.ParseError.
//
// Example:
//
//	p, err := lineage.ParsePath("Student/Person")
//	// p = Path{"Student", "Person"}, err = nil
func ParsePath(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &errors.ParseError{Type: "Path", Value: s}
	}

	segments := strings.Split(s, PathSeparator)
	p := make(Path, 0, len(segments))
	for _, seg := range segments {
		p = append(p, strings.TrimSpace(seg))
	}

	if err := p.Validate(); err != nil {
		return nil, &errors.ParseError{Type: "Path", Value: s}
	}
	return p, nil
}

// Compile-time assertion that Path implements model.Model.
var _ model.Model = (*Path)(nil)

// String returns the canonical slash-joined form of the Path.
func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// Redacted returns the logging form of the Path, identical to String().
func (p Path) Redacted() string {
	return p.String()
}

// TypeName returns "Path" for error messages and diagnostics.
func (p Path) TypeName() string {
	return "Path"
}

// IsZero reports whether the Path is empty.
func (p Path) IsZero() bool {
	return len(p) == 0
}

// Equal reports whether two Paths name the same chain of types.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Leaf returns the last segment of the Path: the type whose state frame
// the Path addresses. Returns "" for an empty Path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new Path extending this one by a segment. The receiver
// is not modified.
func (p Path) Child(segment string) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = segment
	return child
}

// Validate checks that every segment is a CamelCase type name and that the
// chain is non-empty and within PathMaxDepth.
func (p Path) Validate() error {
	if len(p) == 0 {
		return &errors.ValidationError{
			Type:   p.TypeName(),
			Reason: "must have at least one segment",
		}
	}
	if len(p) > PathMaxDepth {
		return &errors.ValidationError{
			Type:   p.TypeName(),
			Reason: fmt.Sprintf("exceeds maximum depth of %d (got %d)", PathMaxDepth, len(p)),
		}
	}
	for i, seg := range p {
		if !typeNamePattern.MatchString(seg) {
			return &errors.ValidationError{
				Type:   p.TypeName(),
				Field:  fmt.Sprintf("[%d]", i),
				Reason: fmt.Sprintf("%q is not a CamelCase type name", seg),
				Value:  seg,
			}
		}
	}
	return nil
}

// MarshalJSON serializes the Path as its slash-joined string after
// validation.
func (p Path) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", p.TypeName(), err)
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON deserializes a Path from its JSON string form. On failure
// the receiver is left unmodified.
func (p *Path) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Data: data, Reason: err.Error()}
	}

	parsed, err := ParsePath(str)
	if err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Data: data, Reason: err.Error()}
	}

	*p = parsed
	return nil
}

// MarshalYAML serializes the Path as its slash-joined string after
// validation.
func (p Path) MarshalYAML() (interface{}, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", p.TypeName(), err)
	}
	return p.String(), nil
}

// UnmarshalYAML deserializes a Path from its YAML string form. On failure
// the receiver is left unmodified.
func (p *Path) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Reason: err.Error()}
	}

	parsed, err := ParsePath(str)
	if err != nil {
		return &errors.UnmarshalError{Type: p.TypeName(), Reason: err.Error()}
	}

	*p = parsed
	return nil
}
