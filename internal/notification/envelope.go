package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope type constants
const (
	TypeConnection            = "connection"
	TypePong                  = "pong"
	TypeSubscriptionConfirmed = "subscription_confirmed"
	TypeAgentStatus           = "agent_status"
	TypeWorkflowCompleted     = "workflow_completed"
	TypeWorkflowFailed        = "workflow_failed"
	TypeEcho                  = "echo"
)

// Agent status values carried in agent_status envelopes
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// Envelope is the wire shape of every message pushed to a client. It is a
// flat record: every envelope carries a type and a timestamp, the remaining
// fields are populated per type and omitted otherwise. Envelopes are never
// mutated after creation. Consumers must ignore unknown fields and unknown
// types.
type Envelope struct {
	Type                 string  `json:"type"`
	Timestamp            string  `json:"timestamp"`
	ClientID             string  `json:"client_id,omitempty"`
	WorkflowID           string  `json:"workflow_id,omitempty"`
	UserID               string  `json:"user_id,omitempty"`
	Agent                string  `json:"agent,omitempty"`
	Status               string  `json:"status,omitempty"`
	Message              string  `json:"message,omitempty"`
	Progress             float64 `json:"progress"`
	StagesCompleted      int     `json:"stages_completed,omitempty"`
	TotalDurationSeconds float64 `json:"total_duration_seconds,omitempty"`
	Summary              string  `json:"summary,omitempty"`
	Error                string  `json:"error,omitempty"`
	Content              string  `json:"content,omitempty"`
}

// Encode serializes the envelope to its canonical JSON wire form.
func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return data, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// NewConnection builds the envelope pushed to a client right after its
// channel is registered.
func NewConnection(clientID string) *Envelope {
	return &Envelope{
		Type:      TypeConnection,
		Timestamp: now(),
		ClientID:  clientID,
		Message:   "Connected to Quanta realtime updates",
	}
}

// NewPong builds the reply to a ping command.
func NewPong() *Envelope {
	return &Envelope{
		Type:      TypePong,
		Timestamp: now(),
	}
}

// NewSubscriptionConfirmed acknowledges a subscribe command, echoing the
// requested workflow identifier.
func NewSubscriptionConfirmed(workflowID string) *Envelope {
	return &Envelope{
		Type:       TypeSubscriptionConfirmed,
		Timestamp:  now(),
		WorkflowID: workflowID,
	}
}

// NewAgentStatus builds a per-stage progress envelope.
func NewAgentStatus(workflowID, userID, agent, status, message string, progress float64) *Envelope {
	return &Envelope{
		Type:       TypeAgentStatus,
		Timestamp:  now(),
		WorkflowID: workflowID,
		UserID:     userID,
		Agent:      agent,
		Status:     status,
		Message:    message,
		Progress:   progress,
	}
}

// NewWorkflowCompleted builds the terminal envelope for a successful
// workflow run.
func NewWorkflowCompleted(workflowID, userID string, stagesCompleted int, totalDuration time.Duration, summary string) *Envelope {
	return &Envelope{
		Type:                 TypeWorkflowCompleted,
		Timestamp:            now(),
		WorkflowID:           workflowID,
		UserID:               userID,
		Status:               "completed",
		StagesCompleted:      stagesCompleted,
		TotalDurationSeconds: totalDuration.Seconds(),
		Summary:              summary,
		Progress:             100,
	}
}

// NewWorkflowFailed builds the terminal envelope for a workflow whose stage
// work signaled an error. It replaces workflow_completed; no further stage
// envelopes follow it.
func NewWorkflowFailed(workflowID, userID, agent, errMsg string, progress float64) *Envelope {
	return &Envelope{
		Type:       TypeWorkflowFailed,
		Timestamp:  now(),
		WorkflowID: workflowID,
		UserID:     userID,
		Agent:      agent,
		Status:     "failed",
		Error:      errMsg,
		Progress:   progress,
	}
}

// NewEcho builds the verbatim-receipt reply for inbound messages that are
// not recognized commands.
func NewEcho(original string) *Envelope {
	return &Envelope{
		Type:      TypeEcho,
		Timestamp: now(),
		Content:   "Received: " + original,
	}
}
