package tomlconfig

import (
	"maps"
	"reflect"
	"slices"
)

// Apply applies one raw document to cfg, which must be a pointer to a
// registered type. Keys are matched against the schema, values are coerced
// to the declared shapes, and each successfully assigned key is marked in
// the instance's Provenance. Keys with no schema entry are a hard error.
//
// Load calls this once per document; it is exported for callers that do
// their own parsing or layering.
func Apply(cfg any, doc map[string]any) error {
	s, v, err := schemaFor(cfg)
	if err != nil {
		return err
	}
	return s.apply(v, doc)
}

func (s *schema) apply(v reflect.Value, doc map[string]any) error {
	prov := s.provenance(v)
	for _, key := range slices.Sorted(maps.Keys(doc)) {
		idx, ok := s.byKey[key]
		if !ok {
			return &Error{Field: key, Err: ErrUnknownKey}
		}
		f := &s.fields[idx]
		fv := v.Field(f.index)

		coerced, err := coerceField(f, fv, doc[key])
		if err != nil {
			return fieldError(key, err)
		}
		fv.Set(coerced)
		prov.mark(key)
	}
	return nil
}
