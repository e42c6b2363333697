// Command tomlconfig inspects layered configuration documents: it previews
// the schema-less deep merge of a base file plus a drop-in directory, and
// lists which keys each document contributes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"

	"github.com/JurajMarcin/tomlconfig"
)

func main() {
	app := &cli.App{
		Name:  "tomlconfig",
		Usage: "inspect layered configuration documents",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "base document `PATH`"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "drop-in directory `PATH`, applied in filename order"},
		},
		Commands: []*cli.Command{
			{
				Name:   "merge",
				Usage:  "deep-merge all documents and print the result as TOML",
				Action: runMerge,
			},
			{
				Name:   "keys",
				Usage:  "list the keys each document contributes, in application order",
				Action: runKeys,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// inputs returns the document paths in application order: the base file
// first, then the drop-in directory's regular files sorted by name.
func inputs(c *cli.Context) ([]string, error) {
	var paths []string
	if p := c.String("config"); p != "" {
		paths = append(paths, p)
	}
	if dir := c.String("dir"); dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no inputs: set --config and/or --dir")
	}
	return paths, nil
}

// runMerge prints a generic override merge of the raw documents. It is a
// preview only: the typed shape rules (list append, tuple replace) apply
// when a registered type is loaded, not here.
func runMerge(c *cli.Context) error {
	paths, err := inputs(c)
	if err != nil {
		return err
	}

	merged := map[string]any{}
	for _, path := range paths {
		doc, err := tomlconfig.ParseFile(path)
		if err != nil {
			return err
		}
		if err := mergo.Merge(&merged, doc, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging %s: %w", path, err)
		}
	}

	out, err := toml.Marshal(merged)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runKeys(c *cli.Context) error {
	paths, err := inputs(c)
	if err != nil {
		return err
	}

	for _, path := range paths {
		doc, err := tomlconfig.ParseFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", path)
		keys := flatten("", doc)
		slices.Sort(keys)
		for _, key := range keys {
			fmt.Printf("  %s\n", key)
		}
	}
	return nil
}

func flatten(prefix string, doc map[string]any) []string {
	var keys []string
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			keys = append(keys, flatten(key, nested)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
