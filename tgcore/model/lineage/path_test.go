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

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Path
		wantErr bool
	}{
		// Valid inputs
		{"single segment", "Person", Path{"Person"}, false},
		{"two segments", "Student/Person", Path{"Student", "Person"}, false},
		{"three segments", "TeachingAssistant/Student/Person", Path{"TeachingAssistant", "Student", "Person"}, false},
		{"padded segments", " Student / Person ", Path{"Student", "Person"}, false},

		// Invalid inputs
		{"empty", "", nil, true},
		{"whitespace only", "   ", nil, true},
		{"empty segment", "Student//Person", nil, true},
		{"lowercase segment", "student/Person", nil, true},
		{"trailing separator", "Student/", nil, true},
		{"invalid characters", "Stu-dent", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParsePath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPath_String(t *testing.T) {
	p := Path{"Student", "Person"}
	if got := p.String(); got != "Student/Person" {
		t.Errorf("Path.String() = %q, want Student/Person", got)
	}
	if got := p.Redacted(); got != "Student/Person" {
		t.Errorf("Path.Redacted() = %q, want Student/Person", got)
	}
}

func TestPath_Leaf(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"empty", Path{}, ""},
		{"single", Path{"Person"}, "Person"},
		{"chain", Path{"Student", "Person"}, "Person"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.Leaf(); got != tt.want {
				t.Errorf("Path.Leaf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPath_Child(t *testing.T) {
	p := Path{"Student"}
	child := p.Child("Person")

	if !child.Equal(Path{"Student", "Person"}) {
		t.Errorf("Child() = %v, want Student/Person", child)
	}
	if !p.Equal(Path{"Student"}) {
		t.Error("Child() mutated the receiver")
	}
}

func TestPath_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Path
		want bool
	}{
		{"identical", Path{"Student", "Person"}, Path{"Student", "Person"}, true},
		{"different leaf", Path{"Student", "Person"}, Path{"Student", "Human"}, false},
		{"different length", Path{"Student"}, Path{"Student", "Person"}, false},
		{"both empty", Path{}, Path{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPath_Validate(t *testing.T) {
	long := make(Path, PathMaxDepth+1)
	for i := range long {
		long[i] = "Person"
	}

	tests := []struct {
		name    string
		path    Path
		wantErr bool
	}{
		{"valid single", Path{"Person"}, false},
		{"valid chain", Path{"Student", "Person"}, false},
		{"empty", Path{}, true},
		{"bad segment", Path{"student"}, true},
		{"too deep", long, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.path.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Path.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPath_IsZero(t *testing.T) {
	if !(Path{}).IsZero() {
		t.Error("empty Path.IsZero() = false, want true")
	}
	if (Path{"Person"}).IsZero() {
		t.Error("non-empty Path.IsZero() = true, want false")
	}
}

func TestPath_JSON_RoundTrip(t *testing.T) {
	original := Path{"Student", "Person"}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `"Student/Person"` {
		t.Errorf("json.Marshal() = %s, want \"Student/Person\"", data)
	}

	var decoded Path
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round-trip = %v, want %v", decoded, original)
	}
}

func TestPath_YAML_RoundTrip(t *testing.T) {
	original := Path{"Teacher", "Person"}

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var decoded Path
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round-trip = %v, want %v", decoded, original)
	}
}
