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
	"sort"

	"dirpx.dev/rxmerr"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model/capability"
)

// Construct instantiates the named type. Every ancestor frame is
// initialized before the frame of the type deriving from it, with the
// concrete frame last; the journal records one "construct:<type>" entry
// per frame in that order.
//
// A type is abstract exactly when some mandatory capability visible along
// its lineage has no implementation bound anywhere in that lineage.
// Constructing an abstract type fails with a ConstructionError naming
// every missing capability; no frames are created.
//
// The fields map seeds initial field values by unqualified name. A value
// applies to every frame whose type owns the field, so a lineage that
// duplicates an ancestor seeds all copies identically; use SetFieldAt
// afterwards to diverge them. A key owned by no frame fails construction.
func (r *Registry) Construct(typeName string, fields map[string]any) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.types[typeName]; !ok {
		return nil, &errors.NotFoundError{Kind: "type", Name: typeName}
	}

	plan, err := r.framePlan(typeName)
	if err != nil {
		return nil, err
	}

	if missing := r.missingMandatory(typeName); len(missing) > 0 {
		return nil, &errors.ConstructionError{Type: typeName, Missing: missing}
	}

	for key := range fields {
		owned := false
		for _, spec := range plan {
			if r.types[spec.typeName].def.OwnsField(key) {
				owned = true
				break
			}
		}
		if !owned {
			return nil, &errors.NotFoundError{Kind: "field", Name: key}
		}
	}

	e := &Entity{
		id:       uuid.New(),
		typeName: typeName,
		frames:   make([]*frame, 0, len(plan)),
		reg:      r,
	}
	for _, spec := range plan {
		def := r.types[spec.typeName].def
		fr := &frame{spec: spec, fields: make(map[string]any, len(def.Fields))}
		for _, name := range def.Fields {
			if v, ok := fields[name]; ok {
				fr.fields[name] = v
			}
		}
		e.frames = append(e.frames, fr)
		e.record("construct:%s", spec.typeName)
	}

	r.log.Debug("constructed entity",
		zap.String("type", typeName),
		zap.Stringer("id", e.id),
		zap.Int("frames", len(e.frames)),
	)
	return e, nil
}

// missingMandatory returns the sorted names of mandatory capabilities
// visible from typeName that have no implementation bound anywhere in its
// lineage. Callers must hold r.mu.
func (r *Registry) missingMandatory(typeName string) []string {
	owners, err := r.capabilityOwners(typeName)
	if err != nil {
		return nil
	}
	var missing []string
	for capName, owner := range owners {
		decl := r.declaredAt(owner, capName)
		if decl.Binding != capability.BindingMandatory {
			continue
		}
		if _, _, ok := r.lookupImpl(typeName, capName); !ok {
			missing = append(missing, capName)
		}
	}
	sort.Strings(missing)
	return missing
}

// declaredAt returns the capability declaration carried by the given
// type. Callers must hold r.mu and know the declaration exists.
func (r *Registry) declaredAt(typeName, capName string) capability.Capability {
	for _, c := range r.types[typeName].def.Declares {
		if c.Name == capName {
			return c
		}
	}
	return capability.Capability{}
}

// Destroy tears an entity down through the given reference. The
// destructor mode comes from the reference's STATIC type, not from the
// entity's concrete type, and that single choice decides how much of the
// entity is released:
//
//   - ModeOverridable rebinds to the concrete type and releases every
//     frame, most-derived first, in exact reverse construction order.
//   - ModeStatic releases only the frames visible from the reference's
//     static layer. Frames of more-derived types are skipped entirely:
//     their finalizers never run and Entity.Leaked reports them.
//
// Each released frame appends "destroy:<type>" to the journal and runs
// its type's finalizer, if one is registered. Finalizer errors are
// collected and returned together; they do not stop the remaining
// releases. Destroying an already-destroyed entity fails.
func (r *Registry) Destroy(ref Ref) error {
	if ref.entity == nil {
		return &errors.ValidationError{Type: "Ref", Reason: "is zero"}
	}
	e := ref.entity
	if e.dead {
		return &errors.ValidationError{
			Type:   "Entity",
			Reason: fmt.Sprintf("%s %s is already destroyed", e.typeName, e.id),
		}
	}

	// Plan the releases under the lock, then run them without it: a
	// finalizer is free to read fields through the entity, which takes
	// the registry lock again.
	r.mu.RLock()
	entry, ok := r.types[ref.static]
	if !ok {
		r.mu.RUnlock()
		return &errors.NotFoundError{Kind: "type", Name: ref.static}
	}

	release := make(map[*frame]bool)
	if entry.def.Destructor == capability.ModeOverridable {
		for _, f := range e.frames {
			release[f] = true
		}
	} else {
		for _, f := range e.visibleFrom(ref.anchor, ref.static) {
			release[f] = true
		}
	}

	type step struct {
		f   *frame
		fin Finalizer
	}
	var steps []step
	for i := len(e.frames) - 1; i >= 0; i-- {
		f := e.frames[i]
		if !release[f] || f.released {
			continue
		}
		steps = append(steps, step{f: f, fin: r.types[f.spec.typeName].finalizer})
	}
	r.mu.RUnlock()

	c := rxmerr.NewCollector()
	for _, s := range steps {
		s.f.released = true
		e.record("destroy:%s", s.f.spec.typeName)
		if s.fin != nil {
			if err := s.fin(e); err != nil {
				c.Append(fmt.Errorf("finalizer for %s: %w", s.f.spec.typeName, err))
			}
		}
	}
	e.dead = true

	leaked := e.Leaked()
	r.log.Debug("destroyed entity",
		zap.String("static", ref.static),
		zap.String("concrete", e.typeName),
		zap.Stringer("id", e.id),
		zap.Strings("leaked", leaked),
	)
	return c.Err()
}
