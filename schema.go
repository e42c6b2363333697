package tomlconfig

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

var (
	timeType        = reflect.TypeOf(time.Time{})
	provenanceType  = reflect.TypeOf(Provenance{})
	emptyStructType = reflect.TypeOf(struct{}{})
)

// kind classifies a field's declared shape. The shape decides how values
// from multiple documents combine: lists append, dicts update, everything
// else is replaced by the last document that sets the field.
type kind int

const (
	kindScalar kind = iota
	kindOptional
	kindList
	kindTuple
	kindSet
	kindDict
)

// field describes one document key of a registered type.
type field struct {
	name     string // Go field name
	key      string // document key
	index    int    // struct field index
	kind     kind
	def      string
	required bool
	secret   bool
}

// schema is the immutable descriptor of a registered config type. It is
// built once by Register and shared by every load of that type.
type schema struct {
	typ       reflect.Type
	fields    []field // declaration order
	byKey     map[string]int
	provIndex int
	validator func(any) error
}

var registry = struct {
	sync.RWMutex
	m map[reflect.Type]*schema
}{m: make(map[reflect.Type]*schema)}

// SchemaOption configures a registration.
type SchemaOption func(*schemaOptions)

type schemaOptions struct {
	validator func(any) error
}

// WithValidator attaches a validation hook that is invoked with the fully
// populated instance after every successful load of T.
func WithValidator[T any](fn func(*T) error) SchemaOption {
	return func(o *schemaOptions) {
		o.validator = func(cfg any) error {
			return fn(cfg.(*T))
		}
	}
}

// Register makes T loadable. T must be a struct embedding Provenance, and
// every exported field must map to a supported shape. Registering the same
// type again replaces its descriptor.
func Register[T any](opts ...SchemaOption) error {
	o := &schemaOptions{}
	for _, opt := range opts {
		opt(o)
	}

	t := reflect.TypeFor[T]()
	s, err := buildSchema(t)
	if err != nil {
		return err
	}
	s.validator = o.validator

	registry.Lock()
	defer registry.Unlock()
	registry.m[t] = s
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](opts ...SchemaOption) {
	if err := Register[T](opts...); err != nil {
		panic(err)
	}
}

func buildSchema(t reflect.Type) (*schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnsupportedType, t)
	}

	s := &schema{typ: t, byKey: make(map[string]int), provIndex: -1}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type == provenanceType {
			s.provIndex = i
			continue
		}
		if !sf.IsExported() {
			continue
		}

		tag := parseTag(sf)
		if tag.skip {
			continue
		}

		f := field{
			name:     sf.Name,
			key:      tag.key,
			index:    i,
			def:      sf.Tag.Get("default"),
			required: sf.Tag.Get("required") == "true",
			secret:   sf.Tag.Get("secret") == "true",
		}
		if err := classify(&f, sf.Type, tag.tuple); err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		if f.def != "" && f.kind != kindScalar && f.kind != kindOptional {
			return nil, fmt.Errorf("field %s: default tag is only supported on scalar fields", sf.Name)
		}
		if _, dup := s.byKey[f.key]; dup {
			return nil, fmt.Errorf("field %s: duplicate key %q", sf.Name, f.key)
		}
		s.byKey[f.key] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	if s.provIndex < 0 {
		return nil, fmt.Errorf("%s must embed tomlconfig.Provenance", t)
	}
	return s, nil
}

// classify derives a field's declared shape from its Go type.
func classify(f *field, t reflect.Type, tuple bool) error {
	switch {
	case isScalar(t):
		f.kind = kindScalar
	case t.Kind() == reflect.Pointer && isScalar(t.Elem()):
		f.kind = kindOptional
	case t.Kind() == reflect.Slice && isScalar(t.Elem()):
		f.kind = kindList
		if tuple {
			f.kind = kindTuple
		}
	case t.Kind() == reflect.Map && t.Elem() == emptyStructType && isScalar(t.Key()):
		f.kind = kindSet
	case t.Kind() == reflect.Map && isScalar(t.Key()) && isScalar(t.Elem()):
		f.kind = kindDict
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if tuple && f.kind != kindTuple {
		return fmt.Errorf("%w: tuple option requires a slice, got %s", ErrUnsupportedType, t)
	}
	return nil
}

func isScalar(t reflect.Type) bool {
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// schemaFor resolves cfg, which must be a non-nil pointer to a registered
// struct, to its descriptor and dereferenced value.
func schemaFor(cfg any) (*schema, reflect.Value, error) {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, reflect.Value{}, fmt.Errorf("%w: %T", ErrNotRegistered, cfg)
	}

	registry.RLock()
	s := registry.m[v.Elem().Type()]
	registry.RUnlock()
	if s == nil {
		return nil, reflect.Value{}, fmt.Errorf("%w: %T", ErrNotRegistered, cfg)
	}
	return s, v.Elem(), nil
}

func (s *schema) provenance(v reflect.Value) *Provenance {
	return v.Field(s.provIndex).Addr().Interface().(*Provenance)
}

// applyDefaults coerces `default` tag values into their fields. Defaults do
// not mark provenance.
func (s *schema) applyDefaults(v reflect.Value) error {
	for i := range s.fields {
		f := &s.fields[i]
		if f.def == "" {
			continue
		}
		fv := v.Field(f.index)
		coerced, err := coerceField(f, fv, f.def)
		if err != nil {
			return fieldError(f.key, fmt.Errorf("bad default: %w", err))
		}
		fv.Set(coerced)
	}
	return nil
}

// checkRequired reports the first `required` field left at its zero value.
func (s *schema) checkRequired(v reflect.Value) error {
	for i := range s.fields {
		f := &s.fields[i]
		if f.required && v.Field(f.index).IsZero() {
			return &Error{Field: f.key, Err: ErrRequired}
		}
	}
	return nil
}
