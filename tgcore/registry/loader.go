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

	bsemver "github.com/blang/semver/v4"
	"gopkg.in/yaml.v3"
	"typegraph.dev/typegraph/tgcore/errors"
	"typegraph.dev/typegraph/tgcore/model"
	"typegraph.dev/typegraph/tgcore/model/capability"
	"typegraph.dev/typegraph/tgcore/model/lineage"
)

// DefinitionDocument is the YAML shape LoadDefinitions accepts: a
// "definitions" list ordered ancestors-first, ready to hand to
// RegisterAll.
//
//	definitions:
//	  - name: Person
//	    fields: [name]
//	    declares:
//	      - name: describe
//	        mode: virtual
//	        binding: pure
//	  - name: Student
//	    lineage:
//	      edges:
//	        - ancestor: Person
//	          policy: virtual
//	    fields: [rollNumber]
type DefinitionDocument struct {
	Definitions []Definition `yaml:"definitions"`
}

// LoadDefinitions parses a YAML definition document. Schema versions are
// accepted tolerantly ("v1.2", "1.2") and normalized to canonical
// semantic-version form; every definition is individually validated.
//
// Parsing goes through a shadow struct rather than Definition directly so
// tolerant schema strings can be normalized before Definition validation
// sees them. The nested model types still decode through their own
// unmarshalers, so mode, binding, and policy aliases apply.
func LoadDefinitions(data []byte) ([]Definition, error) {
	var raw struct {
		Definitions []struct {
			Name       string                  `yaml:"name"`
			Schema     string                  `yaml:"schema"`
			Lineage    lineage.Lineage         `yaml:"lineage"`
			Destructor capability.DispatchMode `yaml:"destructor"`
			Declares   []capability.Capability `yaml:"declares"`
			Fields     []string                `yaml:"fields"`
		} `yaml:"definitions"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &errors.UnmarshalError{Type: "DefinitionDocument", Data: data, Reason: err.Error()}
	}

	defs := make([]Definition, 0, len(raw.Definitions))
	for i, rd := range raw.Definitions {
		def := Definition{
			Name:       rd.Name,
			Lineage:    rd.Lineage,
			Destructor: rd.Destructor,
			Declares:   rd.Declares,
			Fields:     rd.Fields,
		}
		if rd.Schema != "" {
			v, err := bsemver.ParseTolerant(rd.Schema)
			if err != nil {
				return nil, &errors.ValidationError{
					Type:   "Definition",
					Field:  fmt.Sprintf("definitions[%d].Schema", i),
					Reason: fmt.Sprintf("%q is not a semantic version", rd.Schema),
					Value:  rd.Schema,
				}
			}
			def.Schema = v.String()
		}
		defs = append(defs, def)
	}

	// Model methods are split across value and pointer receivers, so the
	// Model constraint is satisfied by *Definition.
	refs := make([]*Definition, len(defs))
	for i := range defs {
		refs[i] = &defs[i]
	}
	if err := model.ValidateAll(refs); err != nil {
		return nil, err
	}
	return defs, nil
}

// Load parses a YAML definition document and registers its definitions in
// document order.
func (r *Registry) Load(data []byte) error {
	defs, err := LoadDefinitions(data)
	if err != nil {
		return err
	}
	return r.RegisterAll(defs)
}
