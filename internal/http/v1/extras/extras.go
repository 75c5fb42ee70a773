// Package extras collects request body properties that an operation schema
// does not declare, so free-form fields can be stored alongside the known
// ones.
package extras

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// MaxFields caps how many undeclared properties a body may carry.
const MaxFields = 32

// ErrTooMany reports a body with more than MaxFields undeclared properties.
var ErrTooMany = errors.New("too many additional properties")

var cborDecMode, _ = cbor.DecOptions{
	DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	IntDec:         cbor.IntDecConvertSignedOrFail,
}.DecMode()

// FromJSON returns the top-level properties of data that are not json
// fields of known. known must be a struct value.
func FromJSON(data []byte, known any) (map[string]any, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return subtract(all, reflect.TypeOf(known))
}

// FromCBOR is FromJSON for CBOR bodies. Nested maps decode with string keys
// and integers as int64 so the values persist in either backend.
func FromCBOR(data []byte, known any) (map[string]any, error) {
	var all map[string]any
	if err := cborDecMode.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return subtract(all, reflect.TypeOf(known))
}

// subtract drops keys that match a declared field. Matching ignores case,
// as the decoders do when filling the struct.
func subtract(all map[string]any, t reflect.Type) (map[string]any, error) {
	names := fieldNames(t)
	for key := range all {
		for _, name := range names {
			if strings.EqualFold(key, name) {
				delete(all, key)
				break
			}
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	if len(all) > MaxFields {
		return nil, ErrTooMany
	}
	return all, nil
}

func fieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			if n, _, _ := strings.Cut(tag, ","); n != "" {
				name = n
			}
		}
		if name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}
