package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config carries everything the binary needs at startup. It is built once
// in main and passed into constructors; nothing reads it globally.
type Config struct {
	Env     string `yaml:"env" env:"TAREAS_ENV" env-default:"local"`
	DBPath  string `yaml:"db_path" env:"TAREAS_DB" env-default:".tareas/tareas.db"`
	Address string `yaml:"serve_address" env:"TAREAS_ADDRESS" env-default:":8080"`
}

// Load reads the config from path, falling back to environment variables
// when the path is empty or the file does not exist.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return Config{}, fmt.Errorf("cannot read env: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("cannot read config %q: %w", path, err)
	}

	return cfg, nil
}
