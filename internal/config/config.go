package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	// App selects the environment; anything other than "prod" seeds
	// the in-memory store with demo data.
	App  string `envconfig:"APP" default:"dev"`
	Addr string `envconfig:"ADDR" default:":8080"`

	// Backend selection: Postgres wins when a DSN is set, then SQLite
	// when a path is set, otherwise the in-memory store.
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	DBPath      string `envconfig:"DB_PATH"`

	MigrationsDir         string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	PostgresMigrationsDir string `envconfig:"POSTGRES_MIGRATIONS_DIR" default:"migrations/postgres"`
}

func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) IsProd() bool {
	return c.App == "prod"
}
