package notification

import "encoding/json"

// Command kinds produced by DecodeCommand
const (
	CommandPing      = "ping"
	CommandSubscribe = "subscribe"
	CommandText      = "text"
)

// Command is one inbound client message after classification. Structured
// commands carry their parsed fields; everything else is classified as
// CommandText with the raw payload preserved in Raw.
type Command struct {
	Type       string `json:"type"`
	WorkflowID string `json:"workflow_id"`
	Raw        string `json:"-"`
}

// DecodeCommand parses an inbound message. A JSON object with a known type
// field decodes as a structured command. Malformed JSON, non-object JSON,
// and unknown types all fall back to a plain-text command so that clients
// that do not speak the structured format stay usable. It never fails.
func DecodeCommand(data []byte) Command {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{Type: CommandText, Raw: string(data)}
	}

	switch cmd.Type {
	case CommandPing:
		return Command{Type: CommandPing}
	case CommandSubscribe:
		return Command{Type: CommandSubscribe, WorkflowID: cmd.WorkflowID}
	default:
		return Command{Type: CommandText, Raw: string(data)}
	}
}
