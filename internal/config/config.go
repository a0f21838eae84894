// Package config loads service settings from flags, an optional YAML file,
// an optional .env file, and PLAYERCARDS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "PLAYERCARDS_"

// Config holds every setting the service reads at startup.
type Config struct {
	Addr      string `koanf:"addr" validate:"required"`
	DBPath    string `koanf:"db" validate:"required"`
	Debug     bool   `koanf:"debug"`
	RateLimit int    `koanf:"ratelimit" validate:"min=0"`
	Log       Log    `koanf:"log"`
	CORS      CORS   `koanf:"cors"`
	Seed      Seed   `koanf:"seed"`
}

type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type CORS struct {
	Origins []string `koanf:"origins" validate:"min=1,dive,required"`
}

// Seed describes the players inserted at startup when absent.
type Seed struct {
	Enabled bool     `koanf:"enabled"`
	Player  string   `koanf:"player" validate:"required_if=Enabled true"`
	Cards   []string `koanf:"cards"`
	File    string   `koanf:"file"`
}

// Load parses args and merges all configuration sources. Explicitly set
// flags win over the environment, which wins over the YAML file, which
// wins over flag defaults.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("playercards", pflag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	envFile := fs.String("env-file", ".env", "Path to a .env file loaded into the environment if present")
	fs.String("addr", ":5000", "HTTP listen address")
	fs.String("db", "playercards.db", "Path to the SQLite database file")
	fs.Bool("debug", false, "Enable debug logging and the /debug profiler")
	fs.Int("ratelimit", 0, "Requests per minute allowed per client IP (0 disables)")
	fs.String("log.level", "info", "Log level: debug, info, warn or error")
	fs.String("log.format", "text", "Log format: text or json")
	fs.StringSlice("cors.origins", []string{"*"}, "Allowed CORS origins")
	fs.Bool("seed.enabled", true, "Seed the default player at startup when absent")
	fs.String("seed.player", "Jimmy", "Name of the default seeded player")
	fs.StringSlice("seed.cards", []string{"2 of hearts", "3 of spades"}, "Cards of the default seeded player")
	fs.String("seed.file", "", "Roster file of additional players to seed")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	k := koanf.New(".")

	if *configPath != "" {
		if err := k.Load(file.Provider(*configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", *configPath, err)
		}
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", *envFile, err)
		}
	}

	// PLAYERCARDS_LOG_LEVEL becomes log.level.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
