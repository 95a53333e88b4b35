package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig      `yaml:"server"`
	Database     DatabaseConfig    `yaml:"database"`
	JWT          JWTConfig         `yaml:"jwt"`
	PriceAPI     PriceAPIConfig    `yaml:"price_api"`
	WebSocket    WebSocketConfig   `yaml:"websocket"`
	Coordinator  CoordinatorConfig `yaml:"coordinator"`
	FallbackRate map[string]string `yaml:"fallback_rates"` // asset symbol -> USD rate
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	DBName       string `yaml:"name"`
	Password     string `yaml:"password"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type PriceAPIConfig struct {
	BaseURL          string `yaml:"base_url"`
	Timeout          int    `yaml:"timeout"`
	MaxRetries       int    `yaml:"max_retries"`
	RetryBackoffBase int    `yaml:"retry_backoff_base"`
	APIKey           string `yaml:"api_key"`
}

type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	AuthDeadline    time.Duration `yaml:"auth_deadline"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
}

type CoordinatorConfig struct {
	MaxTxRetries int `yaml:"max_tx_retries"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	var config Config
	configData, err := os.ReadFile("./config.yaml")
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.Secret = secret
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.WebSocket.TokenTTL == 0 {
		c.WebSocket.TokenTTL = 60 * time.Second
	}
	if c.WebSocket.AuthDeadline == 0 {
		c.WebSocket.AuthDeadline = 10 * time.Second
	}
	if c.Coordinator.MaxTxRetries == 0 {
		c.Coordinator.MaxTxRetries = 3
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "starbook"
	}
}
