// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Addr        string        `env:"LIFESIM_ADDR" envDefault:":8080"`
	LogLevel    string        `env:"LIFESIM_LOG_LEVEL" envDefault:"info"`
	BackendURL  string        `env:"LIFESIM_BACKEND_URL" envDefault:"http://localhost:8084"`
	Profile     string        `env:"LIFESIM_PROFILE" envDefault:"default"`
	Seed        uint64        `env:"LIFESIM_SEED"`
	Journal     string        `env:"LIFESIM_JOURNAL" envDefault:"sqlite"`
	SQLitePath  string        `env:"LIFESIM_SQLITE_PATH" envDefault:"data/lifesim.db"`
	MongoURI    string        `env:"LIFESIM_MONGO_URI"`
	MongoDB     string        `env:"LIFESIM_MONGO_DB" envDefault:"lifesim"`
	CORSOrigins []string      `env:"LIFESIM_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	Autoplay    time.Duration `env:"LIFESIM_AUTOPLAY" envDefault:"0s"`
}

// Journal backends.
const (
	JournalNone   = "none"
	JournalSQLite = "sqlite"
	JournalMongo  = "mongo"
)

// ErrUnknownJournal is returned when LIFESIM_JOURNAL names no backend.
var ErrUnknownJournal = errors.New("unknown journal backend")

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(dotenvPaths ...string) (Config, error) {
	if len(dotenvPaths) == 0 {
		dotenvPaths = []string{".env"}
	}
	for _, p := range dotenvPaths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints the struct tags cannot express.
func (c Config) Validate() error {
	switch c.Journal {
	case JournalNone, JournalSQLite:
	case JournalMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("journal %q requires LIFESIM_MONGO_URI", c.Journal)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJournal, c.Journal)
	}
	return nil
}
