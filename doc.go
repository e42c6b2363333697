// Package tomlconfig loads layered configuration documents into registered
// Go structs with per-shape merge semantics.
//
// A config type embeds Provenance and is registered once, then loaded from a
// base document and an optional drop-in directory:
//
//	type Config struct {
//	    tomlconfig.Provenance
//
//	    Port  int      `default:"8080"`
//	    Tags  []string
//	    Limits map[string]int
//	}
//
//	func init() {
//	    tomlconfig.MustRegister[Config]()
//	}
//
//	cfg, err := tomlconfig.Load[Config](
//	    tomlconfig.WithFile("/etc/app/config.toml"),
//	    tomlconfig.WithOverlayDir("/etc/app/config.toml.d"),
//	)
//
// Field "Tags" maps to document key "tags" (lower snake_case); override the
// key with a `toml:"name"` tag.
//
// # Shapes and merging
//
// A field's Go type declares its shape, and the shape decides how values
// from multiple documents combine:
//
//   - scalars (string, bool, ints, uints, floats, time.Duration, time.Time)
//     and pointers to them: last document wins
//   - slices: lists, elements append across documents
//   - slices tagged `toml:"name,tuple"`: last document's array replaces the
//     previous one wholesale
//   - map[T]struct{}: sets, replaced wholesale like tuples
//   - map[K]V: dicts, later documents update earlier ones key by key
//
// Keys with no matching field fail the load; absent files are only tolerated
// with IgnoreMissing.
//
// # Struct tags
//
//   - toml:"name,opts" - document key and shape options ("tuple"); "-" skips
//   - default:"value"  - applied before any document, never marks provenance
//   - required:"true"  - field must be non-zero after all documents
//   - secret:"true"    - mask value in Print output
//
// # Documents
//
// Formats are selected by file extension: TOML (default), YAML (.yaml,
// .yml), JSON (.json), and dotenv (.env). Every format decodes to the same
// untyped mapping before coercion, so a drop-in directory may mix them.
//
// # Validation and provenance
//
// A validator can be attached at registration with WithValidator, and config
// types may additionally implement the Validator interface; both run on the
// fully populated instance. ExplicitlySet reports which document keys were
// assigned by documents, as opposed to left at defaults.
//
// # Hot reloading
//
// Use NewLoader for a watching loader:
//
//	loader := tomlconfig.NewLoader[Config](
//	    tomlconfig.WithFile("config.toml"),
//	    tomlconfig.WithOnReload(func(old, new any) { log.Println("config reloaded") }),
//	)
//	cfg := loader.MustLoad()
//	loader.StartWatching()
//	defer loader.StopWatching()
package tomlconfig
