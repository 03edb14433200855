package agent

import (
	"context"
	"fmt"
	"strings"
)

// Agent types understood by the factory
type Type string

const (
	TypeResearch      Type = "research"
	TypeData          Type = "data"
	TypeExperiment    Type = "experiment"
	TypeCritic        Type = "critic"
	TypeVisualization Type = "visualization"
)

// AllTypes lists every agent type in workflow order.
func AllTypes() []Type {
	return []Type{TypeResearch, TypeData, TypeExperiment, TypeCritic, TypeVisualization}
}

// TypeForStage maps a workflow stage name to its agent type.
func TypeForStage(stageName string) (Type, error) {
	t := Type(strings.ToLower(stageName))
	switch t {
	case TypeResearch, TypeData, TypeExperiment, TypeCritic, TypeVisualization:
		return t, nil
	}
	return "", fmt.Errorf("no agent for stage %q", stageName)
}

// Agent is one long-lived specialized capability: given an input and the
// accumulated workflow state it produces a textual result or an error.
type Agent interface {
	Invoke(ctx context.Context, input string) (string, error)
	Descriptor() Descriptor
}

// Descriptor is the immutable identity of an agent type.
type Descriptor struct {
	Type         Type
	Name         string
	Description  string
	SystemPrompt string
}

var descriptors = map[Type]Descriptor{
	TypeResearch: {
		Type:        TypeResearch,
		Name:        "Research Agent",
		Description: "Discovers data sources and research information",
		SystemPrompt: "You are a research specialist focused on discovering relevant data sources " +
			"and research information. Identify datasets, APIs and key literature for the given query " +
			"and summarize actionable recommendations for data collection.",
	},
	TypeData: {
		Type:        TypeData,
		Name:        "Data Agent",
		Description: "Fetches and processes data",
		SystemPrompt: "You are a data processing specialist. Fetch and clean the data recommended by " +
			"the research stage, compute basic statistics and summarize data quality and preliminary insights.",
	},
	TypeExperiment: {
		Type:        TypeExperiment,
		Name:        "Experiment Agent",
		Description: "Designs and runs experiments",
		SystemPrompt: "You are an experiment design specialist. Design and simulate experiments over the " +
			"processed data, run hypothesis and significance tests and report statistically sound conclusions.",
	},
	TypeCritic: {
		Type:        TypeCritic,
		Name:        "Critic Agent",
		Description: "Validates results and methodology",
		SystemPrompt: "You are a critical analysis specialist. Review the methodology and results so far, " +
			"identify biases and limitations and provide a balanced quality assessment with improvement suggestions.",
	},
	TypeVisualization: {
		Type:        TypeVisualization,
		Name:        "Visualization Agent",
		Description: "Creates charts and reports",
		SystemPrompt: "You are a visualization specialist. Combine the results of all previous stages into " +
			"a clear, well-structured report with descriptions of the charts that should accompany it.",
	},
}

// DescriptorFor returns the descriptor of a known agent type.
func DescriptorFor(t Type) (Descriptor, error) {
	d, ok := descriptors[t]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown agent type %q", t)
	}
	return d, nil
}
