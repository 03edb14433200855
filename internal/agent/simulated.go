package agent

import (
	"context"
	"fmt"
)

// simulatedAgent stands in for a real model-backed agent. The work itself
// is a no-op; pacing is handled by the stage runner.
type simulatedAgent struct {
	desc Descriptor
}

func newSimulatedAgent(desc Descriptor) *simulatedAgent {
	return &simulatedAgent{desc: desc}
}

func (a *simulatedAgent) Invoke(ctx context.Context, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("[%s] simulated result for: %s", a.desc.Name, input), nil
}

func (a *simulatedAgent) Descriptor() Descriptor {
	return a.desc
}
