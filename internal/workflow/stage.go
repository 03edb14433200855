package workflow

import "time"

// Stage is one ordered unit of work within a workflow: a name, the
// configured duration of its work, and a human-readable progress message.
// Stage values are immutable and shared read-only by every engine instance
// of the same workflow type.
type Stage struct {
	Name     string
	Duration time.Duration
	Message  string
}

// DefaultResearchStages returns the stage sequence of the standard research
// workflow. Each stage maps to one specialized agent.
func DefaultResearchStages() []Stage {
	return []Stage{
		{
			Name:     "Research",
			Duration: 3 * time.Second,
			Message:  "Research agent is discovering data sources...",
		},
		{
			Name:     "Data",
			Duration: 4 * time.Second,
			Message:  "Data agent is fetching and processing data...",
		},
		{
			Name:     "Experiment",
			Duration: 5 * time.Second,
			Message:  "Experiment agent is running analyses...",
		},
		{
			Name:     "Critic",
			Duration: 3 * time.Second,
			Message:  "Critic agent is validating methodology and results...",
		},
		{
			Name:     "Visualization",
			Duration: 4 * time.Second,
			Message:  "Visualization agent is building charts and the report...",
		},
	}
}

// TotalDuration returns the summed configured duration of all stages.
func TotalDuration(stages []Stage) time.Duration {
	var total time.Duration
	for _, st := range stages {
		total += st.Duration
	}
	return total
}
