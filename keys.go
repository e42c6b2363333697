package tomlconfig

import (
	"reflect"
	"strings"
)

// fieldTag holds the parsed `toml` struct tag of a field.
type fieldTag struct {
	key   string
	skip  bool
	tuple bool
}

// parseTag reads the `toml:"name,opts"` tag. An empty name falls back to the
// snake_case form of the Go field name; "-" skips the field entirely.
func parseTag(sf reflect.StructField) fieldTag {
	var ft fieldTag
	tag := sf.Tag.Get("toml")
	name, opts, _ := strings.Cut(tag, ",")
	if name == "-" && opts == "" {
		ft.skip = true
		return ft
	}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "tuple" {
			ft.tuple = true
		}
	}
	ft.key = name
	if ft.key == "" {
		ft.key = toSnake(sf.Name)
	}
	return ft
}

// toSnake converts CamelCase to snake_case.
func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := runes[i-1]
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte('_')
			} else if i+1 < len(runes) {
				next := runes[i+1]
				if next >= 'a' && next <= 'z' {
					b.WriteByte('_')
				}
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
