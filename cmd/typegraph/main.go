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

// Package main demonstrates the typegraph model on three canonical
// hierarchies: late-bound metric dispatch over shapes, shared versus
// duplicated ancestors in a diamond, and the destruction leak a static
// destructor causes through an ancestor-typed reference.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"typegraph.dev/typegraph/tgcore/model/capability"
	"typegraph.dev/typegraph/tgcore/model/lineage"
	"typegraph.dev/typegraph/tgcore/registry"
)

func main() {
	var (
		scenario = pflag.String("scenario", "shapes", "scenario to run: shapes, diamond, or leak")
		verbose  = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch *scenario {
	case "shapes":
		err = runShapes(log)
	case "diamond":
		err = runDiamond(log)
	case "leak":
		err = runLeak(log)
	default:
		err = fmt.Errorf("unknown scenario %q", *scenario)
	}
	if err != nil {
		log.Error("scenario failed", zap.String("scenario", *scenario), zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// runShapes builds an abstract Shape hierarchy and invokes the same
// capability through ancestor-typed references, letting each concrete
// type's binding answer.
func runShapes(log *zap.Logger) error {
	r := registry.New(log)
	if err := r.Load([]byte(shapesDocument)); err != nil {
		return err
	}

	impls := map[string]registry.Impl{
		"Circle": func(e *registry.Entity, args ...any) (any, error) {
			radius, err := e.Get("radius")
			if err != nil {
				return nil, err
			}
			rv := radius.(float64)
			return 3.14 * rv * rv, nil
		},
		"Rectangle": func(e *registry.Entity, args ...any) (any, error) {
			length, err := e.Get("length")
			if err != nil {
				return nil, err
			}
			breadth, err := e.Get("breadth")
			if err != nil {
				return nil, err
			}
			return length.(float64) * breadth.(float64), nil
		},
	}
	for typeName, impl := range impls {
		if err := r.Implement(typeName, "computeMetric", impl); err != nil {
			return err
		}
	}

	// Constructing the abstract root fails before any frame exists.
	if _, err := r.Construct("Shape", nil); err != nil {
		log.Info("abstract construction rejected", zap.String("error", err.Error()))
	}

	circle, err := r.Construct("Circle", map[string]any{"radius": 2.0})
	if err != nil {
		return err
	}
	rect, err := r.Construct("Rectangle", map[string]any{"length": 3.0, "breadth": 4.0})
	if err != nil {
		return err
	}

	for _, e := range []*registry.Entity{circle, rect} {
		shapeRef, err := e.Ref().As("Shape")
		if err != nil {
			return err
		}
		metric, err := r.Invoke(shapeRef, "computeMetric")
		if err != nil {
			return err
		}
		log.Info("metric computed",
			zap.String("concrete", e.TypeName()),
			zap.String("static", shapeRef.Static()),
			zap.Any("metric", metric),
		)
		if err := r.Destroy(e.Ref()); err != nil {
			return err
		}
	}
	return nil
}

// runDiamond contrasts shared and duplicated ancestors: the shared
// registry resolves the root field unambiguously while the duplicated one
// demands path-qualified access.
func runDiamond(log *zap.Logger) error {
	for _, policy := range []lineage.DuplicationPolicy{lineage.PolicyShared, lineage.PolicyUnique} {
		r := registry.New(log)
		if err := r.RegisterAll(peopleDefinitions(policy)); err != nil {
			return err
		}

		e, err := r.Construct("TeachingAssistant", map[string]any{"name": "John"})
		if err != nil {
			return err
		}

		name, err := r.Field(e.Ref(), "name")
		switch {
		case err != nil:
			log.Info("unqualified access rejected",
				zap.Stringer("policy", policy),
				zap.String("error", err.Error()),
			)
			viaStudent, err := r.ResolveField(e.Ref(), lineage.Path{"Student", "Person"}, "name")
			if err != nil {
				return err
			}
			log.Info("path-qualified access",
				zap.Stringer("policy", policy),
				zap.Any("name", viaStudent),
			)
		default:
			log.Info("unqualified access",
				zap.Stringer("policy", policy),
				zap.Any("name", name),
			)
		}

		log.Info("lifecycle journal",
			zap.Stringer("policy", policy),
			zap.Strings("journal", e.Journal()),
		)
		if err := r.Destroy(e.Ref()); err != nil {
			return err
		}
	}
	return nil
}

// runLeak reproduces the classic destruction defect: a static destructor
// reached through an ancestor-typed reference releases only the ancestor
// layer, then shows the overridable destructor releasing everything.
func runLeak(log *zap.Logger) error {
	for _, dtor := range []capability.DispatchMode{capability.ModeStatic, capability.ModeOverridable} {
		r := registry.New(log)
		if err := r.RegisterAll(resourceDefinitions(dtor)); err != nil {
			return err
		}
		if err := r.OnDestroy("PooledResource", func(e *registry.Entity) error {
			log.Info("pooled layer released")
			return nil
		}); err != nil {
			return err
		}

		e, err := r.Construct("PooledResource", map[string]any{"handle": 7})
		if err != nil {
			return err
		}
		baseRef, err := e.Ref().As("Resource")
		if err != nil {
			return err
		}
		if err := r.Destroy(baseRef); err != nil {
			return err
		}

		log.Info("destruction through ancestor reference",
			zap.Stringer("destructor", dtor),
			zap.Strings("leaked", e.Leaked()),
			zap.Strings("journal", e.Journal()),
		)
	}
	return nil
}

const shapesDocument = `
definitions:
  - name: Shape
    schema: 1.0.0
    declares:
      - name: computeMetric
        mode: virtual
        binding: pure
  - name: Circle
    lineage:
      edges:
        - ancestor: Shape
    fields: [radius]
  - name: Rectangle
    lineage:
      edges:
        - ancestor: Shape
    fields: [length, breadth]
`

func peopleDefinitions(policy lineage.DuplicationPolicy) []registry.Definition {
	return []registry.Definition{
		{Name: "Person", Fields: []string{"name"}},
		{
			Name: "Student",
			Lineage: lineage.Lineage{
				Edges: []lineage.Edge{{Ancestor: "Person", Policy: policy}},
			},
			Fields: []string{"rollNumber"},
		},
		{
			Name: "Teacher",
			Lineage: lineage.Lineage{
				Edges: []lineage.Edge{{Ancestor: "Person", Policy: policy}},
			},
			Fields: []string{"subject"},
		},
		{
			Name: "TeachingAssistant",
			Lineage: lineage.Lineage{
				Edges: []lineage.Edge{
					{Ancestor: "Student"},
					{Ancestor: "Teacher"},
				},
			},
		},
	}
}

func resourceDefinitions(dtor capability.DispatchMode) []registry.Definition {
	return []registry.Definition{
		{Name: "Resource", Destructor: dtor, Fields: []string{"handle"}},
		{
			Name: "PooledResource",
			Lineage: lineage.Lineage{
				Edges: []lineage.Edge{{Ancestor: "Resource"}},
			},
		},
	}
}
