// Package config loads box office settings from defaults, an optional YAML
// file, BOXOFFICE_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BOXOFFICE"

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"

	LogOutputFile   = "file"
	LogOutputStderr = "stderr"
)

type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Ops      OpsConfig      `mapstructure:"ops"`
	Console  ConsoleConfig  `mapstructure:"console"`
}

type DataConfig struct {
	Dir        string `mapstructure:"dir"`
	MoviesFile string `mapstructure:"movies_file"`
	UsersFile  string `mapstructure:"users_file"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	File   string `mapstructure:"file"`
}

// OpsConfig controls the read-only HTTP API. An empty Addr disables it.
type OpsConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ConsoleConfig struct {
	LoginAttempts int `mapstructure:"login_attempts"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"data-dir":     "data.dir",
	"storage":      "storage.driver",
	"database-url": "database.url",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-output":   "log.output",
	"ops-addr":     "ops.addr",
}

// NewFlagSet returns the command-line flags understood by Load
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.String("data-dir", "", "directory holding movies.txt and users.txt")
	fs.String("storage", "", "storage driver: file or postgres")
	fs.String("database-url", "", "PostgreSQL connection URL for the postgres driver")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: text or json")
	fs.String("log-output", "", "log output: file or stderr")
	fs.String("ops-addr", "", "listen address for the ops API, e.g. 127.0.0.1:8080")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", ".")
	v.SetDefault("data.movies_file", "movies.txt")
	v.SetDefault("data.users_file", "users.txt")

	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("database.url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", LogOutputFile)
	v.SetDefault("log.file", "boxoffice.log")

	v.SetDefault("ops.addr", "")
	v.SetDefault("ops.read_timeout", 15*time.Second)
	v.SetDefault("ops.write_timeout", 15*time.Second)

	v.SetDefault("console.login_attempts", 3)
}

// Load parses args against fs and resolves the configuration. A nil fs
// means NewFlagSet("boxoffice").
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = NewFlagSet("boxoffice")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v, err := LoadConfig(fs)
	if err != nil {
		return nil, err
	}
	return ParseConfig(v)
}

// LoadConfig builds a viper instance from every configuration source
func LoadConfig(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	path, _ := fs.GetString("config")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// ParseConfig decodes and validates the resolved settings
func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile:
	case StoragePostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Log.Output {
	case LogOutputFile, LogOutputStderr:
	default:
		return fmt.Errorf("unknown log output %q", c.Log.Output)
	}

	if c.Console.LoginAttempts < 1 {
		return fmt.Errorf("console.login_attempts must be at least 1, got %d", c.Console.LoginAttempts)
	}
	return nil
}
