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

	"github.com/google/uuid"
	"typegraph.dev/typegraph/tgcore/model/lineage"
)

// frame is one live layer of an entity's state: the fields owned by one
// type along the lineage of the concrete type. A plain ancestor reached
// through PolicyUnique edges appears once per path; a PolicyShared
// ancestor appears exactly once.
type frame struct {
	spec     frameSpec
	fields   map[string]any
	released bool
}

// Entity is one constructed instance of a registered type. It carries a
// unique identity, the ordered state frames the construction plan
// produced, and a journal of every lifecycle and dispatch event that
// touched it, in order.
//
// An Entity is not safe for concurrent use.
type Entity struct {
	id       uuid.UUID
	typeName string
	frames   []*frame
	journal  []string
	reg      *Registry
	dead     bool
}

// ID returns the entity's unique instance identifier.
func (e *Entity) ID() uuid.UUID {
	return e.id
}

// TypeName returns the concrete type the entity was constructed as. It
// never changes, no matter which ancestor-typed Ref views the entity.
func (e *Entity) TypeName() string {
	return e.typeName
}

// Destroyed reports whether Destroy has run on this entity.
func (e *Entity) Destroyed() bool {
	return e.dead
}

// Journal returns a copy of the entity's event log. Entries are
// "construct:<type>", "invoke:<type>.<capability>" where <type> is the
// type whose implementation ran, and "destroy:<type>", in the order the
// events happened.
func (e *Entity) Journal() []string {
	out := make([]string, len(e.journal))
	copy(out, e.journal)
	return out
}

// Leaked returns the types of state frames that were never released, one
// entry per unreleased frame in construction order. Before Destroy every
// frame is live and the result is empty; after a Destroy dispatched
// through a static destructor on an ancestor-typed reference, the
// descendant frames the destructor never reached show up here.
func (e *Entity) Leaked() []string {
	if !e.dead {
		return nil
	}
	var out []string
	for _, f := range e.frames {
		if !f.released {
			out = append(out, f.spec.typeName)
		}
	}
	return out
}

// Ref returns a reference whose static type is the entity's concrete
// type, anchored at the concrete frame.
func (e *Entity) Ref() Ref {
	return Ref{entity: e, static: e.typeName, anchor: nil}
}

// String identifies the entity for logging.
func (e *Entity) String() string {
	return fmt.Sprintf("Entity{ID:%s, Type:%s, Frames:%d}", e.id, e.typeName, len(e.frames))
}

// Get reads a field by unqualified name from the concrete type's
// viewpoint, applying the same ambiguity rules as Registry.Field.
func (e *Entity) Get(name string) (any, error) {
	return e.reg.Field(e.Ref(), name)
}

// GetAt reads a field through an explicit ancestor path from the concrete
// type's viewpoint, like Registry.ResolveField.
func (e *Entity) GetAt(path lineage.Path, name string) (any, error) {
	return e.reg.ResolveField(e.Ref(), path, name)
}

// Set writes a field by unqualified name from the concrete type's
// viewpoint.
func (e *Entity) Set(name string, value any) error {
	return e.reg.SetField(e.Ref(), name, value)
}

// record appends one event to the journal.
func (e *Entity) record(format string, args ...any) {
	e.journal = append(e.journal, fmt.Sprintf(format, args...))
}

// visibleFrom returns the frames observable through an anchor frame: the
// anchor itself, every frame the anchor's path prefixes, and every shared
// frame whose type sits in the anchor type's lineage closure. The
// registry lock must be held by the caller.
func (e *Entity) visibleFrom(anchor lineage.Path, anchorType string) []*frame {
	closure := e.reg.closure(anchorType)
	var out []*frame
	for _, f := range e.frames {
		if pathHasPrefix(f.spec.path, anchor) {
			out = append(out, f)
			continue
		}
		if f.spec.shared && closure[f.spec.typeName] {
			out = append(out, f)
		}
	}
	return out
}

// frameAt finds the single frame anchored at the given path, if any.
func (e *Entity) frameAt(path lineage.Path) *frame {
	for _, f := range e.frames {
		if f.spec.path.Equal(path) {
			return f
		}
	}
	return nil
}

// pathHasPrefix reports whether path begins with prefix. Every path has
// the empty prefix.
func pathHasPrefix(path, prefix lineage.Path) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

// relativePath strips the anchor prefix from a frame path for reporting.
// Shared frames reached outside the anchor's subtree keep their full
// path.
func relativePath(path, anchor lineage.Path) lineage.Path {
	if pathHasPrefix(path, anchor) {
		return path[len(anchor):]
	}
	return path
}
