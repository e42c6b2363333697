package tomlconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format decodes raw document bytes into an untyped mapping. The loader
// depends only on this contract; implementations are picked per file
// extension unless WithFormat forces one.
type Format interface {
	// Name identifies the format in error messages.
	Name() string
	// Parse decodes data into a nested mapping, failing with ErrDecode on
	// malformed input.
	Parse(data []byte) (map[string]any, error)
}

// TOML returns the default document format.
func TOML() Format { return tomlFormat{} }

// YAML returns the YAML document format, used for .yaml and .yml files.
func YAML() Format { return yamlFormat{} }

// JSON returns the JSON document format, used for .json files.
func JSON() Format { return jsonFormat{} }

// DotEnv returns the dotenv document format, used for .env files. Values
// are flat strings; scalar coercion converts them to the declared types.
func DotEnv() Format { return dotEnvFormat{} }

type tomlFormat struct{}

func (tomlFormat) Name() string { return "toml" }

func (tomlFormat) Parse(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc, nil
}

type yamlFormat struct{}

func (yamlFormat) Name() string { return "yaml" }

func (yamlFormat) Parse(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc, nil
}

type jsonFormat struct{}

func (jsonFormat) Name() string { return "json" }

func (jsonFormat) Parse(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc, nil
}

type dotEnvFormat struct{}

func (dotEnvFormat) Name() string { return "dotenv" }

func (dotEnvFormat) Parse(data []byte) (map[string]any, error) {
	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	doc := make(map[string]any, len(env))
	for k, v := range env {
		doc[k] = v
	}
	return doc, nil
}

// formatFor picks a format by file extension, defaulting to TOML.
func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlFormat{}
	case ".json":
		return jsonFormat{}
	case ".env":
		return dotEnvFormat{}
	default:
		return tomlFormat{}
	}
}

// ParseFile reads and decodes a single document, picking the format from the
// file extension. Not-found errors propagate unwrapped so callers can test
// them with errors.Is(err, fs.ErrNotExist).
func ParseFile(path string) (map[string]any, error) {
	return parseFile(path, nil)
}

func parseFile(path string, f Format) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		f = formatFor(path)
	}
	return f.Parse(data)
}
