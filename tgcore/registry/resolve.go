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

// Field reads a field by unqualified name through a reference. The lookup
// considers every frame visible from the reference: with a shared
// ancestor there is one frame of its type and the read is unambiguous,
// but a duplicated ancestor puts several identically named copies in view
// and the unqualified read fails with an AmbiguityError listing the paths
// that would each disambiguate it.
func (r *Registry) Field(ref Ref, name string) (any, error) {
	f, err := r.fieldFrame(ref, name)
	if err != nil {
		return nil, err
	}
	return f.fields[name], nil
}

// SetField writes a field by unqualified name through a reference, under
// the same visibility and ambiguity rules as Field.
func (r *Registry) SetField(ref Ref, name string, value any) error {
	f, err := r.fieldFrame(ref, name)
	if err != nil {
		return err
	}
	f.fields[name] = value
	return nil
}

// ResolveField reads a field through an explicit ancestor path, the
// escape hatch for reads Field rejects as ambiguous. The path walks
// ancestor names from the reference's static type to the frame holding
// the wanted copy: with Person duplicated under both Student and Teacher,
// "Student/Person" names one copy and "Teacher/Person" the other.
func (r *Registry) ResolveField(ref Ref, path lineage.Path, name string) (any, error) {
	f, err := r.pathFrame(ref, path, name)
	if err != nil {
		return nil, err
	}
	return f.fields[name], nil
}

// SetFieldAt writes a field through an explicit ancestor path, under the
// same resolution rules as ResolveField.
func (r *Registry) SetFieldAt(ref Ref, path lineage.Path, name string, value any) error {
	f, err := r.pathFrame(ref, path, name)
	if err != nil {
		return err
	}
	f.fields[name] = value
	return nil
}

// fieldFrame resolves an unqualified field name to the single visible
// frame owning it.
func (r *Registry) fieldFrame(ref Ref, name string) (*frame, error) {
	e, err := liveEntity(ref)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*frame
	for _, f := range e.visibleFrom(ref.anchor, ref.static) {
		if r.types[f.spec.typeName].def.OwnsField(name) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &errors.NotFoundError{Kind: "field", Name: ref.static + "." + name}
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, 0, len(matches))
		for _, f := range matches {
			paths = append(paths, relativePath(f.spec.path, ref.anchor).String())
		}
		return nil, &errors.AmbiguityError{Type: ref.static, Field: name, Paths: paths}
	}
}

// pathFrame resolves a path-qualified field access to its frame.
func (r *Registry) pathFrame(ref Ref, path lineage.Path, name string) (*frame, error) {
	e, err := liveEntity(ref)
	if err != nil {
		return nil, err
	}
	if err := path.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, err := e.resolveFrame(ref.anchor, ref.static, path)
	if err != nil {
		return nil, err
	}
	if !r.types[f.spec.typeName].def.OwnsField(name) {
		return nil, &errors.NotFoundError{Kind: "field", Name: f.spec.typeName + "." + name}
	}
	return f, nil
}

// resolveFrame finds the frame an ancestor path names, viewed from an
// anchor frame. Each path segment must name an ancestor reachable from
// the previous segment's type, starting at the anchor type. A shared
// frame answers to any valid path ending in its type; a duplicated frame
// only to the path that actually reaches its copy. The registry lock must
// be held by the caller.
func (e *Entity) resolveFrame(anchor lineage.Path, anchorType string, path lineage.Path) (*frame, error) {
	cur := anchorType
	for _, seg := range path {
		if seg == cur || !e.reg.closure(cur)[seg] {
			return nil, &errors.NotFoundError{Kind: "path", Name: anchorType + lineage.PathSeparator + path.String()}
		}
		cur = seg
	}

	var matches []*frame
	for _, f := range e.visibleFrom(anchor, anchorType) {
		if f.spec.shared {
			if f.spec.typeName == path.Leaf() {
				matches = append(matches, f)
			}
			continue
		}
		if pathHasSuffix(relativePath(f.spec.path, anchor), path) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &errors.NotFoundError{Kind: "path", Name: path.String()}
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, 0, len(matches))
		for _, f := range matches {
			paths = append(paths, relativePath(f.spec.path, anchor).String())
		}
		return nil, &errors.AmbiguityError{Type: anchorType, Field: path.Leaf(), Paths: paths}
	}
}

// liveEntity rejects zero refs and destroyed entities.
func liveEntity(ref Ref) (*Entity, error) {
	if ref.entity == nil {
		return nil, &errors.ValidationError{Type: "Ref", Reason: "is zero"}
	}
	if ref.entity.dead {
		return nil, &errors.ValidationError{
			Type:   "Entity",
			Reason: fmt.Sprintf("%s %s is already destroyed", ref.entity.typeName, ref.entity.id),
		}
	}
	return ref.entity, nil
}

// pathHasSuffix reports whether path ends with suffix.
func pathHasSuffix(path, suffix lineage.Path) bool {
	if len(suffix) > len(path) {
		return false
	}
	off := len(path) - len(suffix)
	for i := range suffix {
		if path[off+i] != suffix[i] {
			return false
		}
	}
	return true
}
