package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	Store struct {
		Driver  string
		DSN     string
		Archive string
	} `mapstructure:"store"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled  bool
		Textfile string
	} `mapstructure:"metrics"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.dsn", "brewery.db")
	v.SetDefault("store.archive", "archive.msgpack")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.textfile", "")
}

// Load reads path if given. Environment variables override both the file
// and the defaults: BREW_STORE_DSN sets store.dsn.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, c.validate()
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return errors.New("store.driver must be one of sqlite, postgres, memory; got " + c.Store.Driver)
	}
	if c.Store.Driver != DriverMemory && c.Store.DSN == "" {
		return errors.New("store.dsn is required for the " + c.Store.Driver + " driver")
	}
	return nil
}
