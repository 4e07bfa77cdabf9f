package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AWS       AWSConfig       `yaml:"aws"`
	JWT       JWTConfig       `yaml:"jwt"`
	APNS      APNSConfig      `yaml:"apns"`
	Limits    LimitsConfig    `yaml:"limits"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig holds redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AWSConfig holds object storage configuration for profile photos
type AWSConfig struct {
	Region    string `yaml:"region"`
	S3Bucket  string `yaml:"s3_bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

// TTL returns the token lifetime
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// APNSConfig holds Apple push configuration. Push is disabled when CertFile is empty.
type APNSConfig struct {
	CertFile   string `yaml:"cert_file"`
	CertPass   string `yaml:"cert_password"`
	Topic      string `yaml:"topic"`
	Production bool   `yaml:"production"`
}

// Enabled reports whether push notifications are configured
func (c APNSConfig) Enabled() bool {
	return c.CertFile != ""
}

// LimitsConfig holds per-user action limits
type LimitsConfig struct {
	LikesPer10Sec     int `yaml:"likes_per_10s"`
	LikesPerMinute    int `yaml:"likes_per_minute"`
	MessagesPer10Sec  int `yaml:"messages_per_10s"`
	MessagesPerMinute int `yaml:"messages_per_minute"`
}

// BootstrapConfig holds the page bootstrap probe configuration
type BootstrapConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

const DefaultBootstrapEndpoint = "http://localhost:8000/api/endpoint"

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and defaults, then validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"UDINDER_DB_PASSWORD":    &c.Database.Password,
		"UDINDER_JWT_SECRET":     &c.JWT.Secret,
		"UDINDER_REDIS_PASSWORD": &c.Redis.Password,
		"UDINDER_AWS_ACCESS_KEY": &c.AWS.AccessKey,
		"UDINDER_AWS_SECRET_KEY": &c.AWS.SecretKey,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.JWT.TTLHours <= 0 {
		c.JWT.TTLHours = 720
	}
	if c.Limits.LikesPer10Sec == 0 {
		c.Limits.LikesPer10Sec = 5
	}
	if c.Limits.LikesPerMinute == 0 {
		c.Limits.LikesPerMinute = 30
	}
	if c.Limits.MessagesPer10Sec == 0 {
		c.Limits.MessagesPer10Sec = 10
	}
	if c.Limits.MessagesPerMinute == 0 {
		c.Limits.MessagesPerMinute = 60
	}
	if c.Bootstrap.Endpoint == "" {
		c.Bootstrap.Endpoint = DefaultBootstrapEndpoint
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks required settings
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
