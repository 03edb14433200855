package dto

import "github.com/UkemeSkywalker/Quanta/internal/agent"

type ResearchQueryRequest struct {
	Query    string                 `json:"query" binding:"required,min=10"`
	UserID   string                 `json:"user_id" binding:"required"`
	Priority int                    `json:"priority" binding:"omitempty,gte=1,lte=5"`
	Metadata map[string]interface{} `json:"metadata"`
}

type SubmitResearchResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type WorkflowStatusResponse struct {
	WorkflowID         string  `json:"workflow_id"`
	Status             string  `json:"status"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

type WebSocketStatusResponse struct {
	ActiveConnections int                          `json:"active_connections"`
	TrackedWorkflows  int                          `json:"tracked_workflows"`
	Agents            map[string]agent.AgentStatus `json:"agents"`
}
