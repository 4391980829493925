package employee

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
)

// DecodeDraft reads and validates a create payload.
func DecodeDraft(r io.Reader) (Draft, error) {
	var d Draft
	if err := decode(r, &d); err != nil {
		return Draft{}, err
	}
	if err := d.Validate(); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// DecodePatch reads and validates an update payload. Unknown keys, including
// "id", are ignored.
func DecodePatch(r io.Reader) (Patch, error) {
	var p Patch
	if err := decode(r, &p); err != nil {
		return Patch{}, err
	}
	if err := p.Validate(); err != nil {
		return Patch{}, err
	}
	return p, nil
}

// decode reads exactly one JSON object from r and keeps only the keys whose
// names match dst's json tags byte for byte.
func decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return invalid("body", "invalid JSON")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return invalid("body", "invalid JSON")
	}

	known := jsonFields(reflect.TypeOf(dst).Elem())
	for key := range raw {
		if _, ok := known[key]; !ok {
			delete(raw, key)
		}
	}
	filtered, err := json.Marshal(raw)
	if err != nil {
		return invalid("body", "invalid JSON")
	}

	err = json.Unmarshal(filtered, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return invalid(typeErr.Field, "expected "+jsonKind(typeErr.Type))
	}
	return invalid("body", "invalid JSON")
}

func jsonFields(t reflect.Type) map[string]struct{} {
	fields := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			fields[name] = struct{}{}
		}
	}
	return fields
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}
