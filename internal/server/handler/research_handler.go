package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/UkemeSkywalker/Quanta/internal/server/dto"
	"github.com/UkemeSkywalker/Quanta/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmitResearch handles POST /api/research/submit
// Validates the query, creates a workflow engine and starts it.
func (h *ResearchHandler) SubmitResearch(c *gin.Context) {
	var req dto.ResearchQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid research query", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid research query: " + err.Error(),
		})
		return
	}

	// Random suffix instead of hashing the query text: two submissions
	// from the same user must never collide.
	workflowID := fmt.Sprintf("workflow_%s_%s", req.UserID, uuid.New().String())

	engine := workflow.NewEngine(&workflow.Config{
		WorkflowID:  workflowID,
		UserID:      req.UserID,
		Query:       req.Query,
		Stages:      h.stages,
		Broadcaster: h.broadcaster,
		Run:         h.run,
		Logger:      h.logger,
	})
	h.tracker.Add(engine)

	// The workflow outlives the request; it runs on its own context and
	// always advances to a terminal state once started.
	engine.Start(context.Background())

	h.logger.Info("Research workflow started",
		slog.String("workflow_id", workflowID),
		slog.String("user_id", req.UserID),
		slog.Int("priority", req.Priority),
	)

	// Truncate on rune boundaries so multi-byte queries stay valid UTF-8.
	preview := req.Query
	if runes := []rune(preview); len(runes) > 50 {
		preview = string(runes[:50]) + "..."
	}

	c.JSON(http.StatusOK, dto.SubmitResearchResponse{
		WorkflowID: workflowID,
		Status:     "initiated",
		Message:    "Research workflow started for query: " + preview,
	})
}

// GetWorkflowStatus handles GET /api/workflow/:workflow_id/status
func (h *ResearchHandler) GetWorkflowStatus(c *gin.Context) {
	workflowID := c.Param("workflow_id")

	status, progress, err := h.tracker.Status(workflowID)
	if err != nil {
		if errors.Is(err, workflow.ErrWorkflowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":       "workflow not found",
				"workflow_id": workflowID,
			})
			return
		}
		h.logger.Error("Failed to get workflow status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get workflow status",
		})
		return
	}

	c.JSON(http.StatusOK, dto.WorkflowStatusResponse{
		WorkflowID:         workflowID,
		Status:             string(status),
		ProgressPercentage: progress,
	})
}

// GetWebSocketStatus handles GET /api/websocket/status
func (h *ResearchHandler) GetWebSocketStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.WebSocketStatusResponse{
		ActiveConnections: h.hub.Count(),
		TrackedWorkflows:  h.tracker.Count(),
		Agents:            h.agents.Statuses(),
	})
}

// GetInfo handles GET /api/info
func (h *ResearchHandler) GetInfo(c *gin.Context) {
	stageNames := make([]string, len(h.stages))
	for i, st := range h.stages {
		stageNames[i] = st.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"service":     h.appName,
		"version":     h.appVersion,
		"description": "Multi-agent research workflow system with realtime progress updates",
		"agents":      stageNames,
		"endpoints": gin.H{
			"health":           "GET /health - Health check",
			"submit_research":  "POST /api/research/submit - Submit research query",
			"workflow_status":  "GET /api/workflow/:workflow_id/status - Get workflow status",
			"websocket_status": "GET /api/websocket/status - Connection and agent status",
			"websocket":        "WS /ws/:client_id - Real-time updates",
			"api_info":         "GET /api/info - This endpoint",
		},
	})
}
