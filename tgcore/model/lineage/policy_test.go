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

package lineage

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDuplicationPolicy_String(t *testing.T) {
	tests := []struct {
		name   string
		policy DuplicationPolicy
		want   string
	}{
		{"PolicyShared", PolicyShared, "shared"},
		{"PolicyUnique", PolicyUnique, "unique"},
		{"Unknown", DuplicationPolicy(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.String(); got != tt.want {
				t.Errorf("DuplicationPolicy.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDuplicationPolicy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DuplicationPolicy
		wantErr bool
	}{
		// Valid inputs
		{"shared lowercase", "shared", PolicyShared, false},
		{"shared uppercase", "SHARED", PolicyShared, false},
		{"virtual alias", "virtual", PolicyShared, false},
		{"unique lowercase", "unique", PolicyUnique, false},
		{"unique padded", "  Unique ", PolicyUnique, false},
		{"duplicated alias", "duplicated", PolicyUnique, false},

		// Invalid inputs
		{"empty", "", PolicyShared, true},
		{"invalid", "both", PolicyShared, true},
		{"number", "0", PolicyShared, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuplicationPolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDuplicationPolicy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDuplicationPolicy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDuplicationPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  DuplicationPolicy
		wantErr bool
	}{
		{"PolicyShared", PolicyShared, false},
		{"PolicyUnique", PolicyUnique, false},
		{"Invalid negative", DuplicationPolicy(-1), true},
		{"Invalid positive", DuplicationPolicy(99), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.policy.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("DuplicationPolicy.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuplicationPolicy_IsZero(t *testing.T) {
	if !PolicyShared.IsZero() {
		t.Error("PolicyShared.IsZero() = false, want true")
	}
	if PolicyUnique.IsZero() {
		t.Error("PolicyUnique.IsZero() = true, want false")
	}
}

func TestDuplicationPolicy_TypeName(t *testing.T) {
	var p DuplicationPolicy
	if got := p.TypeName(); got != "DuplicationPolicy" {
		t.Errorf("TypeName() = %v, want DuplicationPolicy", got)
	}
}

func TestDuplicationPolicy_JSON_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		policy DuplicationPolicy
		json   string
	}{
		{"shared", PolicyShared, `"shared"`},
		{"unique", PolicyUnique, `"unique"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.policy)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(data) != tt.json {
				t.Errorf("json.Marshal() = %s, want %s", data, tt.json)
			}

			var decoded DuplicationPolicy
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if decoded != tt.policy {
				t.Errorf("round-trip = %v, want %v", decoded, tt.policy)
			}
		})
	}
}

func TestDuplicationPolicy_YAML_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		policy DuplicationPolicy
	}{
		{"shared", PolicyShared},
		{"unique", PolicyUnique},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := yaml.Marshal(tt.policy)
			if err != nil {
				t.Fatalf("yaml.Marshal() error = %v", err)
			}

			var decoded DuplicationPolicy
			if err := yaml.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("yaml.Unmarshal() error = %v", err)
			}
			if decoded != tt.policy {
				t.Errorf("round-trip = %v, want %v", decoded, tt.policy)
			}
		})
	}
}

func TestDuplicationPolicy_Marshal_Invalid(t *testing.T) {
	if _, err := json.Marshal(DuplicationPolicy(99)); err == nil {
		t.Error("json.Marshal() should fail for unknown policy")
	}
	if _, err := yaml.Marshal(DuplicationPolicy(99)); err == nil {
		t.Error("yaml.Marshal() should fail for unknown policy")
	}
}
