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

package model

import (
	"encoding/json"
	"fmt"

	"dirpx.dev/rxmerr"
	"gopkg.in/yaml.v3"
)

// ValidateAll validates a slice of models and returns all validation errors
// encountered, not just the first one.
//
// The function iterates through each model in the slice and invokes its
// Validate method. When a model fails validation, the error is wrapped with
// the model's position in the slice (zero-indexed) and its type name from
// TypeName, so callers can identify exactly which models failed and why.
//
// If one or more models fail validation, ValidateAll returns a single
// combined error aggregating every individual failure via rxmerr.Collector.
// If all models pass, it returns nil. The function never panics and always
// processes the entire slice even when early elements fail, ensuring
// complete error reporting. Empty slices are considered valid.
//
// Example usage when registering a batch of capability declarations:
//
//	caps := []capability.Capability{area, name, describe}
//	if err := model.ValidateAll(caps); err != nil {
//	    return err
//	}
func ValidateAll[T Model](models []T) error {
	c := rxmerr.NewCollector()

	for i, m := range models {
		if err := m.Validate(); err != nil {
			c.Append(fmt.Errorf("model[%d] (%s): %w", i, m.TypeName(), err))
		}
	}

	return c.Err()
}

// FilterZero returns a new slice containing only non-zero models, removing
// every instance where IsZero reports true.
//
// The returned slice is always a new allocation and never shares backing
// storage with the input, so modifications to either slice do not affect
// the other. If all models in the input are zero, or the input is empty or
// nil, the function returns an empty non-nil slice.
//
// Callers SHOULD use FilterZero before serializing collections to avoid
// emitting empty placeholder values into definition documents. The function
// does not validate models; it only checks IsZero.
func FilterZero[T Model](models []T) []T {
	result := make([]T, 0, len(models))

	for _, m := range models {
		if !m.IsZero() {
			result = append(result, m)
		}
	}

	return result
}

// MustValidate validates a model and panics if validation fails.
//
// If validation succeeds, MustValidate returns the model unchanged,
// allowing inline initialization patterns. If validation fails, it panics
// with a message including the model's type name and the validation error.
//
// Callers MUST only use MustValidate where panic is acceptable control
// flow: test setup, package initialization, or command-line tooling where a
// hardcoded invalid descriptor is a programming error that should terminate
// loudly. Callers MUST NOT use MustValidate in library code paths reachable
// from user input; the registry's construction-time error contract depends
// on errors being returned, not thrown.
//
// Example usage in test setup:
//
//	cap := model.MustValidate(capability.Capability{Name: "area"})
func MustValidate[T Model](m T) T {
	if err := m.Validate(); err != nil {
		panic(fmt.Sprintf("model validation failed for %s: %v", m.TypeName(), err))
	}
	return m
}

// SafeString returns a string representation of a model, choosing between
// the redacted and full forms explicitly.
//
// When unsafe is false (the recommended value for production logging),
// SafeString returns m.Redacted(). When unsafe is true, it returns
// m.String(), which MAY include user-supplied field values. Keeping the
// choice at a single call site makes logging behavior easy to audit.
//
// Example:
//
//	log.Info("registered", zap.String("def", model.SafeString(def, false)))
func SafeString[T Model](m T, unsafe bool) string {
	if unsafe {
		return m.String()
	}
	return m.Redacted()
}

// ToJSON converts a model to JSON bytes after validating it.
//
// The function first invokes Validate; if validation fails, ToJSON returns
// an error wrapping the failure with the model's type name and no
// marshaling is attempted, so invalid descriptors never reach the encoder.
// If validation succeeds, the model is marshaled with json.Marshal,
// honoring any custom MarshalJSON implementation.
//
// Callers SHOULD use ToJSON instead of json.Marshal directly when they need
// the guarantee that only valid models are serialized.
func ToJSON[T Model](m T) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", m.TypeName(), err)
	}
	return json.Marshal(m)
}

// ToYAML converts a model to YAML bytes after validating it.
//
// The function first invokes Validate; if validation fails, ToYAML returns
// an error wrapping the failure with the model's type name and no
// marshaling is attempted. If validation succeeds, the model is marshaled
// with yaml.Marshal, honoring any custom MarshalYAML implementation.
//
// Callers SHOULD use ToYAML when emitting definition documents so that
// invalid hierarchy descriptions never end up in configuration.
func ToYAML[T Model](m T) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", m.TypeName(), err)
	}
	return yaml.Marshal(m)
}

// FromJSON parses JSON bytes into a model and validates the result.
//
// If unmarshaling fails, FromJSON returns the unmarshaling error and no
// validation is attempted. If unmarshaling succeeds but the resulting model
// fails Validate, FromJSON returns the validation error: syntactically
// correct input with violated invariants is rejected at the boundary.
//
// Callers MUST provide a pointer to a zero-initialized model variable. If
// FromJSON returns an error, the variable's state is undefined and MUST NOT
// be used.
//
// Example:
//
//	var c capability.Capability
//	if err := model.FromJSON(data, &c); err != nil {
//	    return err
//	}
func FromJSON[T Model](data []byte, m *T) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("cannot unmarshal JSON: %w", err)
	}
	if err := (*m).Validate(); err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	return nil
}

// FromYAML parses YAML bytes into a model and validates the result.
//
// If unmarshaling fails, FromYAML returns the unmarshaling error and no
// validation is attempted. If unmarshaling succeeds but the model fails
// Validate, FromYAML returns the validation error, so definition documents
// with missing required fields or violated invariants are rejected when
// loaded rather than surfacing later as registry misbehavior.
//
// Callers MUST provide a pointer to a zero-initialized model variable. If
// FromYAML returns an error, the variable's state is undefined and MUST NOT
// be used.
func FromYAML[T Model](data []byte, m *T) error {
	if err := yaml.Unmarshal(data, m); err != nil {
		return fmt.Errorf("cannot unmarshal YAML: %w", err)
	}
	if err := (*m).Validate(); err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	return nil
}

// Clone creates a deep copy of a model by serializing it to JSON and
// deserializing into a new instance.
//
// The JSON round-trip guarantees a deep copy: nested structures, slices,
// and maps are copied by value, and the clone is completely independent of
// the original. The cost is encoding overhead; types cloned in hot paths
// SHOULD implement Cloneable[T] with hand-written copy logic instead.
//
// Callers MUST check the returned error before using the clone. On error
// the returned model is a zero-value instance that MUST NOT be used.
func Clone[T Model](m T) (T, error) {
	var zero T

	data, err := json.Marshal(m)
	if err != nil {
		return zero, fmt.Errorf("clone marshal failed: %w", err)
	}

	var clone T
	if err := json.Unmarshal(data, &clone); err != nil {
		return zero, fmt.Errorf("clone unmarshal failed: %w", err)
	}

	return clone, nil
}

// Equal compares two models for equality by serializing both to JSON and
// comparing the representations byte-for-byte.
//
// If either marshaling fails, Equal returns false without comparing partial
// results, so comparison errors are never mistaken for equality. Unexported
// fields do not participate in the comparison because they do not appear in
// JSON output. Types compared in hot paths SHOULD implement Comparable[T]
// with hand-written logic instead.
func Equal[T Model](a, b T) bool {
	dataA, errA := json.Marshal(a)
	dataB, errB := json.Marshal(b)

	if errA != nil || errB != nil {
		return false
	}

	return string(dataA) == string(dataB)
}
