package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UkemeSkywalker/Quanta/internal/workflow"
)

// Provider selects the agent implementation
const (
	ProviderSimulated = "simulated"
	ProviderOpenAI    = "openai"
)

// Status values reported by the factory's introspection surface
const (
	AgentStatusNotCreated = "not_created"
	AgentStatusReady      = "ready"
)

// Config holds factory configuration.
type Config struct {
	Provider string // simulated or openai
	Model    string // model identifier for the openai provider
	APIKey   string // openai API key, usually from the environment
	Logger   *slog.Logger
}

// Factory lazily creates and caches at most one long-lived agent instance
// per type. Creation happens on first use; subsequent Get calls return the
// same instance.
type Factory struct {
	provider string
	model    string
	apiKey   string
	logger   *slog.Logger

	mu          sync.Mutex
	agents      map[Type]Agent
	invocations map[Type]int
}

// NewFactory creates an empty factory; no agents exist until first use.
func NewFactory(cfg *Config) *Factory {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderSimulated
	}

	return &Factory{
		provider:    provider,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		logger:      cfg.Logger,
		agents:      make(map[Type]Agent),
		invocations: make(map[Type]int),
	}
}

// Get returns the agent for t, creating it on first use.
func (f *Factory) Get(t Type) (Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ag, ok := f.agents[t]; ok {
		return ag, nil
	}

	desc, err := DescriptorFor(t)
	if err != nil {
		return nil, err
	}

	var ag Agent
	switch f.provider {
	case ProviderOpenAI:
		ag, err = newOpenAIAgent(desc, f.model, f.apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s agent: %w", t, err)
		}
	case ProviderSimulated:
		ag = newSimulatedAgent(desc)
	default:
		return nil, fmt.Errorf("unknown agent provider %q", f.provider)
	}

	f.agents[t] = ag
	f.logger.Info("Agent created",
		slog.String("agent_type", string(t)),
		slog.String("provider", f.provider),
	)

	return ag, nil
}

// AgentStatus is the introspection record for one agent type.
type AgentStatus struct {
	AgentType   string `json:"agent_type"`
	Status      string `json:"status"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Model       string `json:"model,omitempty"`
	Invocations int    `json:"invocations"`
}

// Status reports whether the agent for t has been created and what it is.
func (f *Factory) Status(t Type) AgentStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	ag, ok := f.agents[t]
	if !ok {
		return AgentStatus{
			AgentType: string(t),
			Status:    AgentStatusNotCreated,
		}
	}

	desc := ag.Descriptor()
	return AgentStatus{
		AgentType:   string(t),
		Status:      AgentStatusReady,
		Name:        desc.Name,
		Description: desc.Description,
		Model:       f.model,
		Invocations: f.invocations[t],
	}
}

// Statuses reports the status of every agent type.
func (f *Factory) Statuses() map[string]AgentStatus {
	out := make(map[string]AgentStatus, len(AllTypes()))
	for _, t := range AllTypes() {
		out[string(t)] = f.Status(t)
	}
	return out
}

// Run returns a stage runner backed by the factory's agents. With the
// simulated provider the stage's configured duration is the simulated work
// time; with the openai provider it bounds the API call instead.
func (f *Factory) Run() workflow.RunFunc {
	return func(ctx context.Context, stage workflow.Stage, input string) (string, error) {
		t, err := TypeForStage(stage.Name)
		if err != nil {
			return "", err
		}

		ag, err := f.Get(t)
		if err != nil {
			return "", err
		}

		switch f.provider {
		case ProviderSimulated:
			select {
			case <-time.After(stage.Duration):
			case <-ctx.Done():
				return "", fmt.Errorf("stage %s interrupted: %w", stage.Name, ctx.Err())
			}
		default:
			if stage.Duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, stage.Duration)
				defer cancel()
			}
		}

		result, err := ag.Invoke(ctx, input)
		if err != nil {
			return "", fmt.Errorf("%s agent failed: %w", t, err)
		}

		f.mu.Lock()
		f.invocations[t]++
		f.mu.Unlock()

		return result, nil
	}
}
