package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8000, cfg.Server.Port)
				assert.Equal(t, "quanta-api", cfg.App.Name)
				assert.Equal(t, "simulated", cfg.Agents.Provider)
				require.Len(t, cfg.Workflow.Stages, 2)
				assert.Equal(t, "Research", cfg.Workflow.Stages[0].Name)
				assert.Equal(t, 3*time.Second, cfg.Workflow.Stages[0].Duration)
				assert.True(t, cfg.Events.Enabled)
				assert.Equal(t, "quanta_events", cfg.Events.Exchange.Name)
				assert.Equal(t, 2*time.Second, cfg.Events.Connection.RetryInterval)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8000},
		Agents: AgentsConfig{Provider: "simulated"},
		Workflow: WorkflowConfig{
			Stages: []StageConfig{
				{Name: "Research", Duration: 3 * time.Second},
			},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "empty provider defaults",
			mutate: func(c *Config) { c.Agents.Provider = "" },
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "unknown agents provider",
			mutate:    func(c *Config) { c.Agents.Provider = "bedrock" },
			wantErr:   true,
			errString: "invalid agents provider",
		},
		{
			name:      "stage without name",
			mutate:    func(c *Config) { c.Workflow.Stages[0].Name = "" },
			wantErr:   true,
			errString: "name is required",
		},
		{
			name:      "stage with zero duration",
			mutate:    func(c *Config) { c.Workflow.Stages[0].Duration = 0 },
			wantErr:   true,
			errString: "duration must be greater than 0",
		},
		{
			name: "events enabled without host",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Port = 5672
				c.Events.Exchange.Name = "quanta_events"
			},
			wantErr:   true,
			errString: "events host is required",
		},
		{
			name: "events enabled without exchange name",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Host = "localhost"
				c.Events.Port = 5672
			},
			wantErr:   true,
			errString: "events exchange name is required",
		},
		{
			name: "events enabled and complete",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.Host = "localhost"
				c.Events.Port = 5672
				c.Events.Exchange.Name = "quanta_events"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
