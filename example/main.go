package main

import (
	"fmt"

	"github.com/JurajMarcin/tomlconfig"
)

type Config struct {
	tomlconfig.Provenance

	Port int    `default:"8080"`
	Host string `default:"0.0.0.0"`

	DatabaseURL string `required:"true" secret:"true"`

	Tags   []string
	Limits map[string]int
}

func init() {
	tomlconfig.MustRegister[Config]()
}

func main() {
	cfg, err := tomlconfig.Load[Config](
		tomlconfig.WithFile("config.toml"),
		tomlconfig.WithOverlayDir("config.toml.d"),
		tomlconfig.IgnoreMissing(),
	)
	if err != nil {
		panic(err)
	}

	tomlconfig.Print(cfg)

	fmt.Printf("\nServer starting on %s:%d\n", cfg.Host, cfg.Port)
}
