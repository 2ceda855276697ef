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

// Package registry holds the runtime half of the typegraph model: a
// Registry of type Definitions, the entities constructed from them, and
// the dispatch, destruction, and field-resolution rules that give the
// declarative model its behavior.
//
// The split is deliberate. tgcore/model/... types describe hierarchy
// shape and are plain serializable values; this package interprets them.
// A Definition declares WHICH capabilities a type introduces; a Registry
// binds WHAT they do (Implement) and enforces the cross-type invariants
// a single Definition cannot see: ancestors must already be registered,
// an ancestor reached along several paths must carry one duplication
// policy, and a capability name is declared by exactly one type in any
// lineage closure.
package registry

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model/capability"
)

// Impl is a bound capability implementation. It receives the entity whose
// capability was invoked; field access goes through the entity's Get and
// GetAt accessors so an implementation observes the same resolution rules
// as external callers.
type Impl func(e *Entity, args ...any) (any, error)

// Finalizer runs when a state frame of its type is released during
// Destroy. Finalizers run in reverse construction order. An error from a
// finalizer does not stop the remaining releases; Destroy aggregates and
// returns all of them.
type Finalizer func(e *Entity) error

type typeEntry struct {
	def       Definition
	impls     map[string]Impl
	finalizer Finalizer
}

// Registry is the authority for a closed world of entity types. Types
// register bottom-up (ancestors first), which makes lineage cycles
// unrepresentable, and all construction, invocation, destruction, and
// field resolution flows through the Registry that registered the types
// involved.
//
// A Registry is safe for concurrent use. Individual entities are not;
// confine an Entity to one goroutine or synchronize externally.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*typeEntry
	log   *zap.Logger
}

// New creates an empty Registry. A nil logger is replaced with zap.NewNop
// so callers that do not care about diagnostics can pass nil.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		types: make(map[string]*typeEntry),
		log:   log,
	}
}

// Register adds a type Definition to the registry. The definition must be
// locally valid, its name unused, and every direct ancestor already
// registered. Register additionally rejects definitions whose lineage
// reaches some ancestor with conflicting duplication policies, and
// definitions whose lineage closure would carry two distinct declarations
// of the same capability name.
func (r *Registry) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[def.Name]; exists {
		return &errors.ValidationError{
			Type:   "Definition",
			Field:  "Name",
			Reason: fmt.Sprintf("type %s is already registered", def.Name),
			Value:  def.Name,
		}
	}
	for _, e := range def.Lineage.Edges {
		if _, ok := r.types[e.Ancestor]; !ok {
			return &errors.NotFoundError{Kind: "type", Name: e.Ancestor}
		}
	}

	// Install provisionally so the plan and capability walks below can
	// see the new type; undo on any failure.
	entry := &typeEntry{def: def, impls: make(map[string]Impl)}
	r.types[def.Name] = entry
	if _, err := r.framePlan(def.Name); err != nil {
		delete(r.types, def.Name)
		return err
	}
	if _, err := r.capabilityOwners(def.Name); err != nil {
		delete(r.types, def.Name)
		return err
	}

	r.log.Debug("registered type",
		zap.String("type", def.Name),
		zap.Int("ancestors", len(def.Lineage.Edges)),
		zap.Int("declares", len(def.Declares)),
		zap.Int("fields", len(def.Fields)),
	)
	return nil
}

// RegisterAll registers definitions in order, stopping at the first
// failure. Order matters: ancestors must precede their descendants.
func (r *Registry) RegisterAll(defs []Definition) error {
	for i, def := range defs {
		if err := r.Register(def); err != nil {
			return fmt.Errorf("definition[%d] (%s): %w", i, def.Name, err)
		}
	}
	return nil
}

// Implement binds an implementation for a capability at the given type.
// The capability must be visible from that type, either declared by it or
// inherited from an ancestor. Binding at a descendant of the declaring
// type installs an override for overridable capabilities and a shadow for
// static ones; which of the two takes effect at a call site is decided by
// Invoke, not here.
func (r *Registry) Implement(typeName, capName string, impl Impl) error {
	if impl == nil {
		return &errors.ValidationError{
			Type:   "Registry",
			Field:  "impl",
			Reason: fmt.Sprintf("implementation for %s.%s must not be nil", typeName, capName),
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.types[typeName]
	if !ok {
		return &errors.NotFoundError{Kind: "type", Name: typeName}
	}
	if _, _, ok := r.lookupCapability(typeName, capName); !ok {
		return &errors.NotFoundError{Kind: "capability", Name: typeName + "." + capName}
	}
	entry.impls[capName] = impl

	r.log.Debug("bound implementation",
		zap.String("type", typeName),
		zap.String("capability", capName),
	)
	return nil
}

// OnDestroy registers a finalizer for the given type, replacing any
// previous one. The finalizer runs when a state frame of that type is
// released. Frames that destruction never reaches, as happens under a
// static destructor on an ancestor-typed reference, never run theirs;
// that is precisely the leak the Entity.Leaked report surfaces.
func (r *Registry) OnDestroy(typeName string, fn Finalizer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.types[typeName]
	if !ok {
		return &errors.NotFoundError{Kind: "type", Name: typeName}
	}
	entry.finalizer = fn
	return nil
}

// Definition returns the registered Definition for a type name.
func (r *Registry) Definition(typeName string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.types[typeName]
	if !ok {
		return Definition{}, &errors.NotFoundError{Kind: "type", Name: typeName}
	}
	return entry.def, nil
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// entry returns the typeEntry for a name. Callers must hold r.mu.
func (r *Registry) entry(name string) (*typeEntry, bool) {
	e, ok := r.types[name]
	return e, ok
}

// closure returns the set of type names reachable from name through
// lineage edges, including name itself. Callers must hold r.mu.
func (r *Registry) closure(name string) map[string]bool {
	out := make(map[string]bool)
	var walk func(t string)
	walk = func(t string) {
		if out[t] {
			return
		}
		out[t] = true
		if entry, ok := r.types[t]; ok {
			for _, e := range entry.def.Lineage.Edges {
				walk(e.Ancestor)
			}
		}
	}
	walk(name)
	return out
}

// lookupCapability finds the declaration of capName visible from typeName:
// the type's own declaration first, then ancestors depth-first in edge
// order. Returns the capability, the declaring type, and whether it was
// found. Callers must hold r.mu.
func (r *Registry) lookupCapability(typeName, capName string) (capability.Capability, string, bool) {
	seen := make(map[string]bool)
	var walk func(t string) (capability.Capability, string, bool)
	walk = func(t string) (capability.Capability, string, bool) {
		if seen[t] {
			return capability.Capability{}, "", false
		}
		seen[t] = true
		entry, ok := r.types[t]
		if !ok {
			return capability.Capability{}, "", false
		}
		for _, c := range entry.def.Declares {
			if c.Name == capName {
				return c, t, true
			}
		}
		for _, e := range entry.def.Lineage.Edges {
			if c, owner, ok := walk(e.Ancestor); ok {
				return c, owner, true
			}
		}
		return capability.Capability{}, "", false
	}
	return walk(typeName)
}

// lookupImpl finds the implementation bound for capName starting at
// typeName: the type's own binding first, then ancestors depth-first in
// edge order. Returns the implementation and the type it was bound at.
// Callers must hold r.mu.
func (r *Registry) lookupImpl(typeName, capName string) (Impl, string, bool) {
	seen := make(map[string]bool)
	var walk func(t string) (Impl, string, bool)
	walk = func(t string) (Impl, string, bool) {
		if seen[t] {
			return nil, "", false
		}
		seen[t] = true
		entry, ok := r.types[t]
		if !ok {
			return nil, "", false
		}
		if impl, ok := entry.impls[capName]; ok {
			return impl, t, true
		}
		for _, e := range entry.def.Lineage.Edges {
			if impl, owner, ok := walk(e.Ancestor); ok {
				return impl, owner, true
			}
		}
		return nil, "", false
	}
	return walk(typeName)
}

// capabilityOwners maps every capability name visible in typeName's
// lineage closure to its declaring type, rejecting the hierarchy when two
// distinct types declare the same name. Callers must hold r.mu.
func (r *Registry) capabilityOwners(typeName string) (map[string]string, error) {
	owners := make(map[string]string)
	for t := range r.closure(typeName) {
		entry, ok := r.types[t]
		if !ok {
			continue
		}
		for _, c := range entry.def.Declares {
			if prev, dup := owners[c.Name]; dup && prev != t {
				return nil, &errors.ValidationError{
					Type:   "Definition",
					Field:  "Declares",
					Reason: fmt.Sprintf("capability %s declared by both %s and %s in the lineage of %s", c.Name, prev, t, typeName),
				}
			}
			owners[c.Name] = t
		}
	}
	return owners, nil
}
