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
	"fmt"

	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model/lineage"
)

// Ref is a typed view of an entity. The entity's concrete type never
// changes; the Ref's static type decides what a call site can see. An
// overridable capability invoked through a Ref dispatches on the concrete
// type; a static capability, and a static destructor, bind to the Ref's
// static type alone.
//
// A Ref also carries a frame anchor. When a lineage duplicates an
// ancestor, the same entity contains several frames of that ancestor's
// type, and "a reference of type Person" is only meaningful once we know
// which Person layer it views. Entity.Ref anchors at the concrete frame;
// As and AsAt walk the anchor toward an ancestor layer.
type Ref struct {
	entity *Entity
	static string
	anchor lineage.Path
}

// Entity returns the entity the Ref views.
func (ref Ref) Entity() *Entity {
	return ref.entity
}

// Static returns the Ref's static type.
func (ref Ref) Static() string {
	return ref.static
}

// IsZero reports whether the Ref views nothing.
func (ref Ref) IsZero() bool {
	return ref.entity == nil
}

// String identifies the Ref for logging.
func (ref Ref) String() string {
	if ref.entity == nil {
		return "Ref{}"
	}
	if len(ref.anchor) == 0 {
		return fmt.Sprintf("Ref{%s as %s}", ref.entity.typeName, ref.static)
	}
	return fmt.Sprintf("Ref{%s as %s at %s}", ref.entity.typeName, ref.static, ref.anchor)
}

// As narrows the Ref to an ancestor type, like assigning a derived value
// to a base-typed reference. The ancestor must be reachable from the
// current static type; when duplication puts more than one frame of the
// ancestor's type in view, the conversion is ambiguous and the caller
// must use AsAt with an explicit path instead.
func (ref Ref) As(ancestor string) (Ref, error) {
	if ref.entity == nil {
		return Ref{}, &errors.ValidationError{Type: "Ref", Reason: "is zero"}
	}
	if ancestor == ref.static {
		return ref, nil
	}

	r := ref.entity.reg
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.closure(ref.static)[ancestor] {
		return Ref{}, &errors.NotFoundError{Kind: "ancestor", Name: ancestor}
	}

	var matches []*frame
	for _, f := range ref.entity.visibleFrom(ref.anchor, ref.static) {
		if f.spec.typeName == ancestor {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return Ref{}, &errors.NotFoundError{Kind: "ancestor", Name: ancestor}
	case 1:
		return Ref{entity: ref.entity, static: ancestor, anchor: matches[0].spec.path}, nil
	default:
		paths := make([]string, 0, len(matches))
		for _, f := range matches {
			paths = append(paths, relativePath(f.spec.path, ref.anchor).String())
		}
		return Ref{}, &errors.AmbiguityError{
			Type:  ref.static,
			Field: ancestor,
			Paths: paths,
		}
	}
}

// AsAt narrows the Ref along an explicit ancestor path, disambiguating
// conversions As cannot decide. Each path segment must step to a direct
// ancestor of the previous one, starting from the Ref's static type.
func (ref Ref) AsAt(path lineage.Path) (Ref, error) {
	if ref.entity == nil {
		return Ref{}, &errors.ValidationError{Type: "Ref", Reason: "is zero"}
	}
	if err := path.Validate(); err != nil {
		return Ref{}, err
	}

	r := ref.entity.reg
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, err := ref.entity.resolveFrame(ref.anchor, ref.static, path)
	if err != nil {
		return Ref{}, err
	}
	return Ref{entity: ref.entity, static: f.spec.typeName, anchor: f.spec.path}, nil
}
