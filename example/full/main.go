package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/JurajMarcin/tomlconfig"
)

// Config demonstrates most tomlconfig features in one place.
type Config struct {
	tomlconfig.Provenance

	AppName string `toml:"app_name" default:"example"`
	Port    int    `default:"8080"`

	DatabaseURL string `toml:"database_url" required:"true" secret:"true"`

	Tags     []string            // appends across drop-ins
	Flags    []string            `toml:"flags,tuple"` // last drop-in wins
	Features map[string]struct{} // last drop-in wins
	Limits   map[string]int      // updates key by key
	Deadline *time.Time          // optional

	ShutdownGrace time.Duration `toml:"shutdown_grace" default:"10s"`
}

func init() {
	tomlconfig.MustRegister[Config](
		tomlconfig.WithValidator(func(cfg *Config) error {
			if cfg.Port < 1024 {
				return errors.New("port must be >= 1024")
			}
			return nil
		}),
	)
}

func main() {
	logger := log.New(os.Stdout, "[config] ", log.LstdFlags)

	loader := tomlconfig.NewLoader[Config](
		tomlconfig.WithFile("config.toml"),
		tomlconfig.WithOverlayDir("config.toml.d"),
		tomlconfig.IgnoreMissing(),
		tomlconfig.WithLogger(logger),
		tomlconfig.WithOnReload(func(old, new any) {
			logger.Printf("config reloaded: port %d -> %d",
				old.(*Config).Port, new.(*Config).Port)
		}),
	)

	cfg := loader.MustLoad()
	tomlconfig.Print(cfg)

	set, _ := tomlconfig.ExplicitlySet(cfg)
	fmt.Printf("\nexplicitly set: %d keys\n", len(set))

	if err := loader.StartWatching(); err != nil {
		logger.Fatalf("failed to start watcher: %v", err)
	}
	defer loader.StopWatching()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
}
