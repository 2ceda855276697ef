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

	"go.uber.org/zap"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model/capability"
)

// Invoke calls a capability through a reference. The capability must be
// visible from the reference's static type; the declared dispatch mode
// then picks the implementation:
//
//   - ModeOverridable resolves against the entity's CONCRETE type, so the
//     most-derived binding wins no matter how the reference is typed.
//   - ModeStatic resolves against the reference's STATIC type alone. A
//     descendant's shadow binding is invisible through an ancestor-typed
//     reference.
//
// Either way resolution walks from the chosen type up its lineage,
// nearest binding first, and the journal records which type's
// implementation actually ran.
func (r *Registry) Invoke(ref Ref, capName string, args ...any) (any, error) {
	if ref.entity == nil {
		return nil, &errors.ValidationError{Type: "Ref", Reason: "is zero"}
	}
	e := ref.entity
	if e.dead {
		return nil, &errors.ValidationError{
			Type:   "Entity",
			Reason: fmt.Sprintf("%s %s is already destroyed", e.typeName, e.id),
		}
	}

	r.mu.RLock()
	decl, _, ok := r.lookupCapability(ref.static, capName)
	if !ok {
		r.mu.RUnlock()
		return nil, &errors.NotFoundError{Kind: "capability", Name: ref.static + "." + capName}
	}

	target := ref.static
	if decl.Mode == capability.ModeOverridable {
		target = e.typeName
	}
	impl, implOwner, ok := r.lookupImpl(target, capName)
	r.mu.RUnlock()
	if !ok {
		return nil, &errors.NotFoundError{Kind: "implementation", Name: target + "." + capName}
	}

	e.record("invoke:%s.%s", implOwner, capName)
	r.log.Debug("invoked capability",
		zap.String("capability", capName),
		zap.String("static", ref.static),
		zap.String("resolved", implOwner),
		zap.Stringer("mode", decl.Mode),
	)
	return impl(e, args...)
}
