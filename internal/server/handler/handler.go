package handler

import (
	"log/slog"

	"github.com/UkemeSkywalker/Quanta/internal/agent"
	"github.com/UkemeSkywalker/Quanta/internal/hub"
	"github.com/UkemeSkywalker/Quanta/internal/workflow"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger      *slog.Logger
	Hub         *hub.Hub
	Tracker     *workflow.Tracker
	Agents      *agent.Factory
	Stages      []workflow.Stage
	Broadcaster workflow.Broadcaster
	Run         workflow.RunFunc
	AppName     string
	AppVersion  string
}

// ResearchHandler handles research workflow HTTP requests and the
// WebSocket endpoint
type ResearchHandler struct {
	logger      *slog.Logger
	hub         *hub.Hub
	tracker     *workflow.Tracker
	agents      *agent.Factory
	stages      []workflow.Stage
	broadcaster workflow.Broadcaster
	run         workflow.RunFunc
	appName     string
	appVersion  string
}

// NewResearchHandler creates a new ResearchHandler instance
func NewResearchHandler(deps *Dependencies) *ResearchHandler {
	return &ResearchHandler{
		logger:      deps.Logger,
		hub:         deps.Hub,
		tracker:     deps.Tracker,
		agents:      deps.Agents,
		stages:      deps.Stages,
		broadcaster: deps.Broadcaster,
		run:         deps.Run,
		appName:     deps.AppName,
		appVersion:  deps.AppVersion,
	}
}
