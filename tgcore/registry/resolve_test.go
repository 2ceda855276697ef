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
	"testing"

	"github.com/stretchr/testify/require"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model/lineage"
)

func TestSharedAncestorFieldIsUnambiguous(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	got, err := r.Field(e.Ref(), "name")
	require.NoError(t, err)
	require.Equal(t, "John", got)

	// One frame means a write through either path lands on the same
	// state.
	require.NoError(t, r.SetFieldAt(e.Ref(), lineage.Path{"Student", "Person"}, "name", "Jane"))
	got, err = r.ResolveField(e.Ref(), lineage.Path{"Teacher", "Person"}, "name")
	require.NoError(t, err)
	require.Equal(t, "Jane", got)
}

func TestDuplicatedAncestorFieldIsAmbiguous(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyUnique)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	_, err = r.Field(e.Ref(), "name")
	require.Error(t, err)
	var aerr *errors.AmbiguityError
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, "TeachingAssistant", aerr.Type)
	require.Equal(t, "name", aerr.Field)
	require.ElementsMatch(t, []string{"Student/Person", "Teacher/Person"}, aerr.Paths)
}

func TestPathQualifiedAccessDisambiguates(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyUnique)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	// The two copies diverge independently once written through their
	// paths.
	require.NoError(t, r.SetFieldAt(e.Ref(), lineage.Path{"Student", "Person"}, "name", "John the student"))
	require.NoError(t, r.SetFieldAt(e.Ref(), lineage.Path{"Teacher", "Person"}, "name", "John the teacher"))

	viaStudent, err := r.ResolveField(e.Ref(), lineage.Path{"Student", "Person"}, "name")
	require.NoError(t, err)
	viaTeacher, err := r.ResolveField(e.Ref(), lineage.Path{"Teacher", "Person"}, "name")
	require.NoError(t, err)
	require.Equal(t, "John the student", viaStudent)
	require.Equal(t, "John the teacher", viaTeacher)
}

func TestNarrowedRefSeesOnlyItsBranch(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyUnique)

	e, err := r.Construct("TeachingAssistant", nil)
	require.NoError(t, err)
	require.NoError(t, r.SetFieldAt(e.Ref(), lineage.Path{"Student", "Person"}, "name", "student copy"))
	require.NoError(t, r.SetFieldAt(e.Ref(), lineage.Path{"Teacher", "Person"}, "name", "teacher copy"))

	// Narrowed to the Student layer, only the Student branch's Person
	// copy is in view, so the unqualified read is no longer ambiguous.
	studentRef, err := e.Ref().As("Student")
	require.NoError(t, err)
	got, err := r.Field(studentRef, "name")
	require.NoError(t, err)
	require.Equal(t, "student copy", got)

	teacherRef, err := e.Ref().As("Teacher")
	require.NoError(t, err)
	got, err = r.Field(teacherRef, "name")
	require.NoError(t, err)
	require.Equal(t, "teacher copy", got)
}

func TestAsAmbiguousForDuplicatedAncestor(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyUnique)

	e, err := r.Construct("TeachingAssistant", nil)
	require.NoError(t, err)

	_, err = e.Ref().As("Person")
	require.Error(t, err)
	var aerr *errors.AmbiguityError
	require.ErrorAs(t, err, &aerr)

	// AsAt with the explicit path succeeds where As cannot decide.
	personRef, err := e.Ref().AsAt(lineage.Path{"Student", "Person"})
	require.NoError(t, err)
	require.Equal(t, "Person", personRef.Static())
}

func TestAsUnambiguousForSharedAncestor(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	personRef, err := e.Ref().As("Person")
	require.NoError(t, err)
	got, err := r.Field(personRef, "name")
	require.NoError(t, err)
	require.Equal(t, "John", got)
}

func TestAsRejectsNonAncestor(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("Student", nil)
	require.NoError(t, err)

	_, err = e.Ref().As("Teacher")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown ancestor: Teacher")
}

func TestNarrowedRefCannotSeeDescendantFields(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("TeachingAssistant", map[string]any{"stipend": 1200})
	require.NoError(t, err)
	studentRef, err := e.Ref().As("Student")
	require.NoError(t, err)

	_, err = r.Field(studentRef, "stipend")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field: Student.stipend")
}

func TestResolveFieldRejectsInvalidPath(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("TeachingAssistant", nil)
	require.NoError(t, err)

	// Ghost is no ancestor of TeachingAssistant.
	_, err = r.ResolveField(e.Ref(), lineage.Path{"Ghost"}, "name")
	require.Error(t, err)

	// Teacher is an ancestor, but rollNumber lives elsewhere.
	_, err = r.ResolveField(e.Ref(), lineage.Path{"Teacher"}, "rollNumber")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field: Teacher.rollNumber")
}

func TestDeepSharedPathByLeafAlone(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
	require.NoError(t, err)

	// With a single shared frame, naming just the ancestor type is
	// enough even though Person is not a direct ancestor.
	got, err := r.ResolveField(e.Ref(), lineage.Path{"Person"}, "name")
	require.NoError(t, err)
	require.Equal(t, "John", got)
}

func TestDisjointMultipleAncestorsAreUnambiguous(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.RegisterAll([]Definition{
		{Name: "Father", Fields: []string{"surname"}},
		{Name: "Mother", Fields: []string{"maidenName"}},
		{
			Name: "Child",
			Lineage: lineage.Lineage{
				Edges: []lineage.Edge{
					{Ancestor: "Father"},
					{Ancestor: "Mother"},
				},
			},
			Fields: []string{"firstName"},
		},
	}))

	e, err := r.Construct("Child", map[string]any{
		"surname":    "Doe",
		"maidenName": "Smith",
		"firstName":  "Ada",
	})
	require.NoError(t, err)

	// Two bases with disjoint fields never collide, so every read works
	// unqualified.
	for field, want := range map[string]any{
		"surname":    "Doe",
		"maidenName": "Smith",
		"firstName":  "Ada",
	} {
		got, err := r.Field(e.Ref(), field)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestSetFieldUnqualified(t *testing.T) {
	r := newPeopleRegistry(t, lineage.PolicyShared)

	e, err := r.Construct("Student", map[string]any{"rollNumber": 1})
	require.NoError(t, err)

	require.NoError(t, r.SetField(e.Ref(), "rollNumber", 42))
	got, err := r.Field(e.Ref(), "rollNumber")
	require.NoError(t, err)
	require.Equal(t, 42, got)
}
