package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
	Agents   AgentsConfig   `yaml:"agents"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Events   EventsConfig   `yaml:"events"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// AgentsConfig selects and configures the agent implementation backing
// workflow stages
type AgentsConfig struct {
	Provider string `yaml:"provider"` // simulated or openai
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"` // falls back to OPENAI_API_KEY
}

// WorkflowConfig holds workflow stage configuration; an empty stage list
// selects the built-in research stages
type WorkflowConfig struct {
	Stages []StageConfig `yaml:"stages"`
}

// StageConfig describes one workflow stage
type StageConfig struct {
	Name     string        `yaml:"name"`
	Duration time.Duration `yaml:"duration"`
	Message  string        `yaml:"message"`
}

// EventsConfig holds the optional AMQP event tap configuration
type EventsConfig struct {
	Enabled    bool           `yaml:"enabled"`
	Host       string         `yaml:"host"`
	Port       int            `yaml:"port"`
	User       string         `yaml:"user"`
	Password   string         `yaml:"password"`
	VHost      string         `yaml:"vhost"`
	Exchange   ExchangeConfig `yaml:"exchange"`
	RoutingKey string         `yaml:"routing_key"`
	Connection RetryConfig    `yaml:"connection"`
}

// ExchangeConfig holds AMQP exchange configuration
type ExchangeConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
}

// RetryConfig holds AMQP connection retry settings
type RetryConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	Heartbeat         time.Duration `yaml:"heartbeat"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	switch c.Agents.Provider {
	case "", "simulated", "openai":
	default:
		return fmt.Errorf("invalid agents provider: %q (must be simulated or openai)", c.Agents.Provider)
	}

	for i, st := range c.Workflow.Stages {
		if st.Name == "" {
			return fmt.Errorf("workflow stage %d: name is required", i)
		}
		if st.Duration <= 0 {
			return fmt.Errorf("workflow stage %q: duration must be greater than 0", st.Name)
		}
	}

	if c.Events.Enabled {
		if c.Events.Host == "" {
			return fmt.Errorf("events host is required when events are enabled")
		}
		if c.Events.Port < MinPort || c.Events.Port > MaxPort {
			return fmt.Errorf("invalid events port: %d (must be between %d and %d)", c.Events.Port, MinPort, MaxPort)
		}
		if c.Events.Exchange.Name == "" {
			return fmt.Errorf("events exchange name is required when events are enabled")
		}
	}

	return nil
}
