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

// frameSpec is one planned state frame for an entity: which type's fields
// it carries and where it sits in the lineage graph of the concrete type.
type frameSpec struct {
	// typeName is the type whose fields the frame carries.
	typeName string

	// path locates the frame relative to the concrete type: the chain of
	// ancestor names walked to reach it, in order. The concrete type's
	// own frame has an empty path. A shared frame records the path of
	// the first edge that reached it; later paths collapse onto it.
	path lineage.Path

	// shared marks a frame reached through a PolicyShared edge. Shared
	// frames are reachable from any layer whose closure contains their
	// type, regardless of the recorded path.
	shared bool
}

// framePlan computes the ordered list of state frames an instance of the
// concrete type carries, and validates the lineage graph's duplication
// policies along the way.
//
// Frames come out in construction order: a postorder depth-first walk of
// the lineage graph following edges in declaration order, so every
// ancestor's frame precedes the frame of the type that derives from it,
// and the concrete type's own frame comes last. Destruction releases
// frames in exactly the reverse order.
//
// An ancestor reached through PolicyShared edges yields one frame no
// matter how many paths reach it; an ancestor reached through PolicyUnique
// edges yields one frame per path. Reaching the same ancestor through
// edges with different policies is a contradiction and fails the plan.
//
// Callers must hold r.mu.
func (r *Registry) framePlan(concrete string) ([]frameSpec, error) {
	var (
		frames     []frameSpec
		planShared = make(map[string]bool)
		policySeen = make(map[string]lineage.DuplicationPolicy)
		onStack    = make(map[string]bool)
	)

	var build func(t string, path lineage.Path) error
	build = func(t string, path lineage.Path) error {
		if onStack[t] {
			return &errors.ValidationError{
				Type:   "Definition",
				Field:  "Lineage",
				Reason: fmt.Sprintf("lineage of %s cycles through %s", concrete, t),
			}
		}
		onStack[t] = true
		defer delete(onStack, t)

		entry, ok := r.types[t]
		if !ok {
			return &errors.NotFoundError{Kind: "type", Name: t}
		}

		for _, e := range entry.def.Lineage.Edges {
			if prev, seen := policySeen[e.Ancestor]; seen && prev != e.Policy {
				return &errors.ValidationError{
					Type:   "Definition",
					Field:  "Lineage",
					Reason: fmt.Sprintf("ancestor %s reached with both %s and %s duplication in the lineage of %s", e.Ancestor, prev, e.Policy, concrete),
				}
			}
			policySeen[e.Ancestor] = e.Policy

			if e.Policy == lineage.PolicyShared && planShared[e.Ancestor] {
				continue
			}
			if e.Policy == lineage.PolicyShared {
				planShared[e.Ancestor] = true
			}
			if err := build(e.Ancestor, path.Child(e.Ancestor)); err != nil {
				return err
			}
		}

		frames = append(frames, frameSpec{
			typeName: t,
			path:     path,
			shared:   len(path) > 0 && policySeen[t] == lineage.PolicyShared,
		})
		return nil
	}

	if err := build(concrete, nil); err != nil {
		return nil, err
	}
	return frames, nil
}
