package tomlconfig

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"
)

// Print writes cfg to stdout with secret masking.
func Print(cfg any) {
	_ = Fprint(os.Stdout, cfg)
}

// Fprint writes cfg to w, one line per document key in declaration order.
// Keys that were explicitly set during loading are marked with '*'; fields
// tagged secret (or with secret-looking names) are masked.
func Fprint(w io.Writer, cfg any) error {
	s, v, err := schemaFor(cfg)
	if err != nil {
		return err
	}
	set := s.provenance(v).set

	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, strings.Repeat("─", 50))
	for i := range s.fields {
		f := &s.fields[i]
		val := formatValue(f, v.Field(f.index))

		if isSecret(f) && len(val) > 0 {
			if len(val) > 8 {
				val = val[:3] + "***" + val[len(val)-3:]
			} else {
				val = "***"
			}
		}

		marker := " "
		if _, ok := set[f.key]; ok {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-25s = %s\n", marker, f.key, val)
	}
	fmt.Fprintln(w, strings.Repeat("─", 50))
	return nil
}

func formatValue(f *field, fv reflect.Value) string {
	switch f.kind {
	case kindOptional:
		if fv.IsNil() {
			return "<unset>"
		}
		return fmt.Sprintf("%v", fv.Elem().Interface())
	case kindSet:
		keys := make([]string, 0, fv.Len())
		for _, k := range fv.MapKeys() {
			keys = append(keys, fmt.Sprintf("%v", k.Interface()))
		}
		slices.Sort(keys)
		return "{" + strings.Join(keys, " ") + "}"
	default:
		return fmt.Sprintf("%v", fv.Interface())
	}
}

func isSecret(f *field) bool {
	if f.secret {
		return true
	}
	upper := strings.ToUpper(f.name)
	return strings.Contains(upper, "SECRET") ||
		strings.Contains(upper, "PASSWORD") ||
		strings.Contains(upper, "TOKEN") ||
		strings.Contains(upper, "KEY")
}
