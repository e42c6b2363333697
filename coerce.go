package tomlconfig

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// coerceField converts raw into f's declared shape and returns the value to
// assign. existing is the field's current value: lists append to it and
// dicts update it, every other shape starts fresh.
func coerceField(f *field, existing reflect.Value, raw any) (reflect.Value, error) {
	switch f.kind {
	case kindScalar:
		return coerceScalar(existing.Type(), raw)

	case kindOptional:
		inner, err := coerceScalar(existing.Type().Elem(), raw)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(existing.Type().Elem())
		p.Elem().Set(inner)
		return p, nil

	case kindList:
		items, err := coerceSlice(existing.Type(), raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.AppendSlice(existing, items), nil

	case kindTuple:
		return coerceSlice(existing.Type(), raw)

	case kindSet:
		return coerceSet(existing.Type(), raw)

	case kindDict:
		return coerceDict(existing, raw)
	}
	return reflect.Value{}, fmt.Errorf("%w: unhandled shape", ErrUnsupportedType)
}

// coerceSlice builds a fresh slice of t from a raw array, coercing each
// element through the scalar path.
func coerceSlice(t reflect.Type, raw any) (reflect.Value, error) {
	list, ok := raw.([]any)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: expected an array, got %T", ErrCoerce, raw)
	}
	out := reflect.MakeSlice(t, 0, len(list))
	for _, item := range list {
		v, err := coerceScalar(t.Elem(), item)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
	}
	return out, nil
}

// coerceSet builds a fresh set from a raw array. It never unions with the
// previous value: each document's assignment replaces the set wholesale.
func coerceSet(t reflect.Type, raw any) (reflect.Value, error) {
	list, ok := raw.([]any)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: expected an array, got %T", ErrCoerce, raw)
	}
	out := reflect.MakeMapWithSize(t, len(list))
	for _, item := range list {
		k, err := coerceScalar(t.Key(), item)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, reflect.Zero(t.Elem()))
	}
	return out, nil
}

// coerceDict merges a raw table into the existing map, overwriting colliding
// keys. Entry errors carry the inner key so the caller's field prefix yields
// a "field.key" path.
func coerceDict(existing reflect.Value, raw any) (reflect.Value, error) {
	table, ok := raw.(map[string]any)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: expected a table, got %T", ErrCoerce, raw)
	}

	t := existing.Type()
	out := existing
	if out.IsNil() {
		out = reflect.MakeMapWithSize(t, len(table))
	}
	for _, key := range slices.Sorted(maps.Keys(table)) {
		k, err := coerceScalar(t.Key(), key)
		if err != nil {
			return reflect.Value{}, &Error{Field: key, Err: err}
		}
		v, err := coerceScalar(t.Elem(), table[key])
		if err != nil {
			return reflect.Value{}, &Error{Field: key, Err: err}
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

// coerceScalar converts a raw document value into the scalar type t,
// following the conversions the document formats need: numbers widen or
// parse from strings, durations parse from strings, times accept RFC 3339.
func coerceScalar(t reflect.Type, raw any) (reflect.Value, error) {
	if raw == nil {
		return reflect.Value{}, fmt.Errorf("%w: value is missing", ErrCoerce)
	}

	out := reflect.New(t).Elem()

	if t == timeType {
		switch v := raw.(type) {
		case time.Time:
			out.Set(reflect.ValueOf(v))
		case string:
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrCoerce, err)
			}
			out.Set(reflect.ValueOf(ts))
		default:
			return reflect.Value{}, fmt.Errorf("%w: invalid time value: %v", ErrCoerce, raw)
		}
		return out, nil
	}

	switch t.Kind() {
	case reflect.String:
		out.SetString(fmt.Sprintf("%v", raw))

	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			out.SetBool(v)
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrCoerce, err)
			}
			out.SetBool(b)
		default:
			return reflect.Value{}, fmt.Errorf("%w: invalid bool value: %v", ErrCoerce, raw)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(t, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%w: %d overflows %s", ErrCoerce, n, t)
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint64(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("%w: %d overflows %s", ErrCoerce, n, t)
		}
		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		switch v := raw.(type) {
		case float64:
			out.SetFloat(v)
		case int:
			out.SetFloat(float64(v))
		case int64:
			out.SetFloat(float64(v))
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrCoerce, err)
			}
			out.SetFloat(n)
		default:
			return reflect.Value{}, fmt.Errorf("%w: invalid float value: %v", ErrCoerce, raw)
		}

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return out, nil
}

func toInt64(t reflect.Type, raw any) (int64, error) {
	if t == durationType {
		switch v := raw.(type) {
		case time.Duration:
			return int64(v), nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return 0, fmt.Errorf("%w: %v", ErrCoerce, err)
			}
			return int64(d), nil
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		}
		return 0, fmt.Errorf("%w: invalid duration value: %v", ErrCoerce, raw)
	}

	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrCoerce, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: invalid integer value: %v", ErrCoerce, raw)
}

func toUint64(raw any) (uint64, error) {
	switch v := raw.(type) {
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrCoerce, v)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrCoerce, v)
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("%w: %v is negative", ErrCoerce, v)
		}
		return uint64(v), nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrCoerce, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: invalid integer value: %v", ErrCoerce, raw)
}
