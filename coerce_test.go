package tomlconfig

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		raw  any
		want any
	}{
		{"string from string", reflect.TypeOf(""), "x", "x"},
		{"string from int", reflect.TypeOf(""), int64(3), "3"},
		{"int from int64", reflect.TypeOf(0), int64(3), 3},
		{"int from string", reflect.TypeOf(0), "3", 3},
		{"int from float truncates", reflect.TypeOf(0), 1.9, 1},
		{"uint from int64", reflect.TypeOf(uint16(0)), int64(80), uint16(80)},
		{"float from int", reflect.TypeOf(0.0), int64(2), 2.0},
		{"float from string", reflect.TypeOf(0.0), "2.5", 2.5},
		{"bool from bool", reflect.TypeOf(false), true, true},
		{"bool from string", reflect.TypeOf(false), "true", true},
		{"duration from string", reflect.TypeOf(time.Duration(0)), "5m30s", 5*time.Minute + 30*time.Second},
		{"duration from int", reflect.TypeOf(time.Duration(0)), int64(time.Second), time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerceScalar(tc.typ, tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Interface())
		})
	}
}

func TestCoerceScalar_Time(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := coerceScalar(timeType, ts)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.Interface().(time.Time)))

	got, err = coerceScalar(timeType, "2024-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.Interface().(time.Time)))
}

func TestCoerceScalar_Idempotent(t *testing.T) {
	// Coercing a coerced value again yields the same value.
	first, err := coerceScalar(reflect.TypeOf(0), "3")
	require.NoError(t, err)

	second, err := coerceScalar(reflect.TypeOf(0), first.Interface())
	require.NoError(t, err)
	assert.Equal(t, 3, second.Interface())
}

func TestCoerceScalar_Errors(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		raw  any
	}{
		{"bad int string", reflect.TypeOf(0), "many"},
		{"int overflow", reflect.TypeOf(int8(0)), int64(1000)},
		{"negative uint", reflect.TypeOf(uint(0)), int64(-1)},
		{"bad bool", reflect.TypeOf(false), "maybe"},
		{"bad duration", reflect.TypeOf(time.Duration(0)), "soon"},
		{"bad time", reflect.TypeOf(time.Time{}), "yesterday"},
		{"nil value", reflect.TypeOf(0), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coerceScalar(tc.typ, tc.raw)
			assert.ErrorIs(t, err, ErrCoerce)
		})
	}
}

func TestApply_ListAppends(t *testing.T) {
	type Config struct {
		Provenance

		Tags []string
	}
	MustRegister[Config]()

	cfg := &Config{}
	require.NoError(t, Apply(cfg, map[string]any{"tags": []any{"a"}}))
	require.NoError(t, Apply(cfg, map[string]any{"tags": []any{"b"}}))

	assert.Equal(t, []string{"a", "b"}, cfg.Tags)
}

func TestApply_TupleReplaces(t *testing.T) {
	type Config struct {
		Provenance

		Flags []string `toml:"flags,tuple"`
	}
	MustRegister[Config]()

	cfg := &Config{}
	require.NoError(t, Apply(cfg, map[string]any{"flags": []any{"x", "y"}}))
	require.NoError(t, Apply(cfg, map[string]any{"flags": []any{"z"}}))

	assert.Equal(t, []string{"z"}, cfg.Flags)
}

func TestApply_SetReplaces(t *testing.T) {
	type Config struct {
		Provenance

		Features map[string]struct{}
	}
	MustRegister[Config]()

	cfg := &Config{}
	require.NoError(t, Apply(cfg, map[string]any{"features": []any{"x", "y"}}))
	require.NoError(t, Apply(cfg, map[string]any{"features": []any{"z"}}))

	assert.Equal(t, map[string]struct{}{"z": {}}, cfg.Features)
}

func TestApply_DictUpdates(t *testing.T) {
	type Config struct {
		Provenance

		Limits map[string]int
	}
	MustRegister[Config]()

	cfg := &Config{}
	require.NoError(t, Apply(cfg, map[string]any{"limits": map[string]any{"cpu": int64(1)}}))
	require.NoError(t, Apply(cfg, map[string]any{"limits": map[string]any{"mem": int64(2), "cpu": int64(9)}}))

	assert.Equal(t, map[string]int{"cpu": 9, "mem": 2}, cfg.Limits)
}

func TestApply_ScalarOverwrites(t *testing.T) {
	type Config struct {
		Provenance

		Port int
	}
	MustRegister[Config]()

	cfg := &Config{}
	require.NoError(t, Apply(cfg, map[string]any{"port": int64(80)}))
	require.NoError(t, Apply(cfg, map[string]any{"port": int64(8080)}))

	assert.Equal(t, 8080, cfg.Port)
}

func TestApply_Optional(t *testing.T) {
	type Config struct {
		Provenance

		Port *int
	}
	MustRegister[Config]()

	cfg := &Config{}
	require.NoError(t, Apply(cfg, map[string]any{"port": int64(80)}))

	require.NotNil(t, cfg.Port)
	assert.Equal(t, 80, *cfg.Port)
}

func TestApply_UnknownKey(t *testing.T) {
	type Config struct {
		Provenance

		Port int
	}
	MustRegister[Config]()

	err := Apply(&Config{}, map[string]any{"bogus": int64(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "bogus")
}

func TestApply_FieldErrorPath(t *testing.T) {
	type Config struct {
		Provenance

		Port   int
		Limits map[string]int
	}
	MustRegister[Config]()

	err := Apply(&Config{}, map[string]any{"port": "many"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCoerce)
	assert.Contains(t, err.Error(), "port: ")

	err = Apply(&Config{}, map[string]any{"limits": map[string]any{"cpu": "many"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCoerce)
	assert.Contains(t, err.Error(), "limits.cpu: ")
}

func TestApply_ListElementError(t *testing.T) {
	type Config struct {
		Provenance

		Ports []int
	}
	MustRegister[Config]()

	err := Apply(&Config{}, map[string]any{"ports": []any{int64(1), "many"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCoerce)
	assert.Contains(t, err.Error(), "ports: ")
}

func TestApply_ShapeMismatch(t *testing.T) {
	type Config struct {
		Provenance

		Tags   []string
		Limits map[string]int
	}
	MustRegister[Config]()

	err := Apply(&Config{}, map[string]any{"tags": "not-an-array"})
	assert.ErrorIs(t, err, ErrCoerce)

	err = Apply(&Config{}, map[string]any{"limits": []any{"not-a-table"}})
	assert.ErrorIs(t, err, ErrCoerce)
}

func TestApply_Unregistered(t *testing.T) {
	type other struct {
		Provenance
	}

	err := Apply(&other{}, map[string]any{})
	assert.ErrorIs(t, err, ErrNotRegistered)
}
