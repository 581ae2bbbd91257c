package config

import (
	"net"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	defaultTokenTTL   = 30 * 24 * time.Hour
	defaultBcryptCost = 10
)

type Config struct {
	Storage     string `yaml:"storage"`
	DBUsername  string `yaml:"db_username"`
	DBPassword  string `yaml:"db_password"`
	DBHost      string `yaml:"db_host"`
	DBPort      string `yaml:"port"`
	DBName      string `yaml:"db_name"`
	DisableTLS  bool   `yaml:"disable_tls"`
	DBDebug     bool   `yaml:"db_debug"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	JWTKey     string        `yaml:"jwt_key"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// NewConfig reads and validates the YAML file at path.
func NewConfig(path string) (*Config, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	return Parse(yamlFile)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var c Config

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = StoragePostgres
	}
	if c.DBPort == "" {
		c.DBPort = "5432"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = defaultBcryptCost
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
			return errors.New("missing required database configuration")
		}
	case StorageMemory:
	default:
		return errors.Errorf("unknown storage %q", c.Storage)
	}

	if c.JWTKey == "" {
		return errors.New("missing jwt_key")
	}
	if c.TokenTTL < 0 {
		return errors.New("token_ttl must be positive")
	}

	return nil
}

// DBAddr returns host:port of the postgres server.
func (c *Config) DBAddr() string {
	return net.JoinHostPort(c.DBHost, c.DBPort)
}
