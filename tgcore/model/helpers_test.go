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

package model_test

import (
	"strings"
	"testing"

	"typegraph.dev/typegraph/tgcore/model"
)

// The Model constraint requires the full method set, including the
// pointer-receiver unmarshalers, so the helpers are instantiated with
// *TraitModel throughout.

func TestValidateAll(t *testing.T) {
	tests := []struct {
		name       string
		models     []*TraitModel
		wantErr    bool
		wantInsert []string
	}{
		{
			name:    "empty slice",
			models:  nil,
			wantErr: false,
		},
		{
			name: "all valid",
			models: []*TraitModel{
				{Name: "radius", Label: "Radius"},
				{Name: "width", Label: "Width"},
			},
			wantErr: false,
		},
		{
			name: "one invalid",
			models: []*TraitModel{
				{Name: "radius", Label: "Radius"},
				{Name: "width"},
			},
			wantErr:    true,
			wantInsert: []string{"model[1]", "TraitModel"},
		},
		{
			name: "all invalid reported",
			models: []*TraitModel{
				{},
				{Name: "width"},
			},
			wantErr:    true,
			wantInsert: []string{"model[0]", "model[1]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateAll(tt.models)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAll() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.wantInsert {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("ValidateAll() error %q should contain %q", err.Error(), want)
				}
			}
		})
	}
}

func TestFilterZero(t *testing.T) {
	models := []*TraitModel{
		{Name: "radius", Label: "Radius"},
		{},
		{Name: "width", Label: "Width"},
		{},
	}

	got := model.FilterZero(models)

	if len(got) != 2 {
		t.Fatalf("FilterZero() returned %d models, want 2", len(got))
	}
	if got[0].Name != "radius" || got[1].Name != "width" {
		t.Errorf("FilterZero() = %+v, want radius then width", got)
	}

	// Empty input yields an empty, non-nil slice.
	empty := model.FilterZero([]*TraitModel{})
	if empty == nil || len(empty) != 0 {
		t.Errorf("FilterZero(empty) = %v, want empty non-nil slice", empty)
	}
}

func TestMustValidate(t *testing.T) {
	t.Run("valid model returned unchanged", func(t *testing.T) {
		m := model.MustValidate(&TraitModel{Name: "radius", Label: "Radius"})
		if m.Name != "radius" {
			t.Errorf("MustValidate() = %+v, want unchanged model", m)
		}
	})

	t.Run("invalid model panics", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("MustValidate() should panic on invalid model")
			}
			if !strings.Contains(r.(string), "TraitModel") {
				t.Errorf("panic message %q should contain type name", r)
			}
		}()
		model.MustValidate(&TraitModel{})
	})
}

func TestSafeString(t *testing.T) {
	m := &TraitModel{Name: "radius", Label: "Radius", Seed: "initial-7"}

	safe := model.SafeString(m, false)
	if strings.Contains(safe, "initial-7") {
		t.Errorf("SafeString(unsafe=false) leaked seed: %q", safe)
	}

	unsafe := model.SafeString(m, true)
	if !strings.Contains(unsafe, "initial-7") {
		t.Errorf("SafeString(unsafe=true) = %q, want full representation", unsafe)
	}
}

func TestToJSON_FromJSON(t *testing.T) {
	original := &TraitModel{Name: "radius", Label: "Radius"}

	data, err := model.ToJSON(original)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded := &TraitModel{}
	if err := model.FromJSON(data, &decoded); err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if decoded.Name != original.Name {
		t.Errorf("round-trip = %+v, want %+v", decoded, original)
	}

	// Invalid models are rejected before encoding.
	if _, err := model.ToJSON(&TraitModel{}); err == nil {
		t.Error("ToJSON() should fail on invalid model")
	}

	// Valid JSON carrying an invalid model is rejected after decoding.
	bad := &TraitModel{}
	if err := model.FromJSON([]byte(`{"Name":"radius"}`), &bad); err == nil {
		t.Error("FromJSON() should fail when validation fails")
	}
}

func TestToYAML_FromYAML(t *testing.T) {
	original := &TraitModel{Name: "radius", Label: "Radius"}

	data, err := model.ToYAML(original)
	if err != nil {
		t.Fatalf("ToYAML() error = %v", err)
	}

	decoded := &TraitModel{}
	if err := model.FromYAML(data, &decoded); err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}
	if decoded.Name != original.Name {
		t.Errorf("round-trip = %+v, want %+v", decoded, original)
	}

	if _, err := model.ToYAML(&TraitModel{}); err == nil {
		t.Error("ToYAML() should fail on invalid model")
	}

	bad := &TraitModel{}
	if err := model.FromYAML([]byte("name: radius"), &bad); err == nil {
		t.Error("FromYAML() should fail when validation fails")
	}
}

func TestClone(t *testing.T) {
	original := &TraitModel{Name: "radius", Label: "Radius"}

	clone, err := model.Clone(original)
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	if clone.Name != original.Name || clone.Label != original.Label {
		t.Errorf("Clone() = %+v, want %+v", clone, original)
	}

	clone.Name = "width"
	if original.Name != "radius" {
		t.Error("mutating the clone affected the original")
	}
}

func TestEqual(t *testing.T) {
	a := &TraitModel{Name: "radius", Label: "Radius"}
	b := &TraitModel{Name: "radius", Label: "Radius"}
	c := &TraitModel{Name: "width", Label: "Width"}

	if !model.Equal(a, b) {
		t.Error("Equal() = false for identical models")
	}
	if model.Equal(a, c) {
		t.Error("Equal() = true for different models")
	}

	// Marshal failure (invalid model) reads as inequality, not equality.
	if model.Equal(&TraitModel{}, &TraitModel{}) {
		t.Error("Equal() should be false when marshaling fails")
	}
}
