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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model/capability"
	"typegraph.dev/typegraph/tgcore/model/lineage"
)

func TestConstructOrderSharedDiamond(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	// One Person frame, initialized before everything that derives from
	// it.
	want := []string{
		"construct:Person",
		"construct:Student",
		"construct:Teacher",
		"construct:TeachingAssistant",
	}
	if diff := cmp.Diff(want, e.Journal()); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestConstructOrderUniqueDiamond(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyUnique)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	// One Person frame per path, each initialized just before the type
	// that reaches it.
	want := []string{
		"construct:Person",
		"construct:Student",
		"construct:Person",
		"construct:Teacher",
		"construct:TeachingAssistant",
	}
	if diff := cmp.Diff(want, e.Journal()); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestConstructSeedsEveryOwningFrame(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyUnique)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	viaStudent, err := e.GetAt(lineage.Path{"Student", "Person"}, "name")
	require.NoError(t, err)
	viaTeacher, err := e.GetAt(lineage.Path{"Teacher", "Person"}, "name")
	require.NoError(t, err)
	require.Equal(t, "John", viaStudent)
	require.Equal(t, "John", viaTeacher)
}

func TestConstructRejectsUnknownType(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)
	_, err := r.Construct("Ghost", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown type: Ghost")
}

func TestConstructRejectsUnknownField(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)
	_, err := r.Construct("Student", map[string]any{"grade": "A"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field: grade")
}

func TestConstructRejectsAbstractType(t *testing.T) {
	r := newShapesRegistry(t)

	_, err := r.Construct("Shape", nil)
	require.Error(t, err)
	var cerr *errors.ConstructionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "Shape", cerr.Type)
	require.Equal(t, []string{"computeMetric"}, cerr.Missing)
}

func TestConstructRejectsDescendantWithoutMandatoryImpl(t *testing.T) {
	r := newShapesRegistry(t)
	require.NoError(t, r.Register(Definition{
		Name: "Triangle",
		Lineage: lineage.Lineage{
			Edges: []lineage.Edge{{Ancestor: "Shape"}},
		},
		Fields: []string{"base", "height"},
	}))

	_, err := r.Construct("Triangle", nil)
	var cerr *errors.ConstructionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "Triangle", cerr.Type)

	// Binding the implementation makes the same type constructible.
	require.NoError(t, r.Implement("Triangle", "computeMetric", func(e *Entity, args ...any) (any, error) {
		base, err := e.Get("base")
		if err != nil {
			return nil, err
		}
		height, err := e.Get("height")
		if err != nil {
			return nil, err
		}
		return 0.5 * base.(float64) * height.(float64), nil
	}))
	_, err = r.Construct("Triangle", map[string]any{"base": 3.0, "height": 4.0})
	require.NoError(t, err)
}

func TestDestroyReversesConstructionOrder(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("TeachingAssistant", nil)
	require.NoError(t, err)
	require.NoError(t, r.Destroy(e.Ref()))

	want := []string{
		"construct:Person",
		"construct:Student",
		"construct:Teacher",
		"construct:TeachingAssistant",
		"destroy:TeachingAssistant",
		"destroy:Teacher",
		"destroy:Student",
		"destroy:Person",
	}
	if diff := cmp.Diff(want, e.Journal()); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
	require.True(t, e.Destroyed())
	require.Empty(t, e.Leaked())
}

func TestDestroyTwiceFails(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("Person", nil)
	require.NoError(t, err)
	require.NoError(t, r.Destroy(e.Ref()))

	err = r.Destroy(e.Ref())
	require.Error(t, err)
	require.Contains(t, err.Error(), "already destroyed")
}

// newResourceRegistry builds the fixture for destructor-mode tests: a
// Resource base holding a handle, a PooledResource derived from it, and a
// finalizer on each that records its run.
func newResourceRegistry(t *testing.T, baseDtor capability.DispatchMode, finalized *[]string) *Registry {
	t.Helper()
	r := New(nil)
	require.NoError(t, r.RegisterAll([]Definition{
		{
			Name:       "Resource",
			Destructor: baseDtor,
			Fields:     []string{"handle"},
		},
		{
			Name: "PooledResource",
			Lineage: lineage.Lineage{
				Edges: []lineage.Edge{{Ancestor: "Resource"}},
			},
			Fields: []string{"pool"},
		},
	}))
	for _, name := range []string{"Resource", "PooledResource"} {
		name := name
		require.NoError(t, r.OnDestroy(name, func(e *Entity) error {
			*finalized = append(*finalized, name)
			return nil
		}))
	}
	return r
}

func TestStaticDestructorThroughAncestorRefLeaks(t *testing.T) {
	var finalized []string
	r := newResourceRegistry(t, capability.ModeStatic, &finalized)

	e, err := r.Construct("PooledResource", map[string]any{"handle": 7})
	require.NoError(t, err)
	baseRef, err := e.Ref().As("Resource")
	require.NoError(t, err)

	require.NoError(t, r.Destroy(baseRef))

	// Only the base layer is released; the derived layer's finalizer
	// never runs and its frame is reported leaked.
	require.Equal(t, []string{"Resource"}, finalized)
	require.Equal(t, []string{"PooledResource"}, e.Leaked())
	require.True(t, e.Destroyed())
}

func TestStaticDestructorThroughConcreteRefReleasesAll(t *testing.T) {
	var finalized []string
	r := newResourceRegistry(t, capability.ModeStatic, &finalized)

	e, err := r.Construct("PooledResource", nil)
	require.NoError(t, err)
	require.NoError(t, r.Destroy(e.Ref()))

	require.Equal(t, []string{"PooledResource", "Resource"}, finalized)
	require.Empty(t, e.Leaked())
}

func TestOverridableDestructorThroughAncestorRefReleasesAll(t *testing.T) {
	var finalized []string
	r := newResourceRegistry(t, capability.ModeOverridable, &finalized)

	e, err := r.Construct("PooledResource", nil)
	require.NoError(t, err)
	baseRef, err := e.Ref().As("Resource")
	require.NoError(t, err)

	require.NoError(t, r.Destroy(baseRef))

	require.Equal(t, []string{"PooledResource", "Resource"}, finalized)
	require.Empty(t, e.Leaked())
}

func TestDestroyedEntityRejectsFurtherUse(t *testing.T) {
	r := newShapesRegistry(t)

	e, err := r.Construct("Circle", map[string]any{"radius": 1.0})
	require.NoError(t, err)
	require.NoError(t, r.Destroy(e.Ref()))

	_, err = r.Invoke(e.Ref(), "computeMetric")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already destroyed")

	_, err = e.Get("radius")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already destroyed")
}

func TestFinalizerErrorsAreCollected(t *testing.T) {
	var finalized []string
	r := newResourceRegistry(t, capability.ModeOverridable, &finalized)
	require.NoError(t, r.OnDestroy("Resource", func(e *Entity) error {
		finalized = append(finalized, "Resource")
		return fmt.Errorf("handle close failed")
	}))

	e, err := r.Construct("PooledResource", nil)
	require.NoError(t, err)

	err = r.Destroy(e.Ref())
	require.Error(t, err)
	require.Contains(t, err.Error(), "finalizer for Resource")

	// A failing finalizer does not stop the remaining releases.
	require.True(t, e.Destroyed())
	require.Empty(t, e.Leaked())
}
