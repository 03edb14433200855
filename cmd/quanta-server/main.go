package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UkemeSkywalker/Quanta/internal/agent"
	"github.com/UkemeSkywalker/Quanta/internal/config"
	"github.com/UkemeSkywalker/Quanta/internal/events"
	"github.com/UkemeSkywalker/Quanta/internal/hub"
	"github.com/UkemeSkywalker/Quanta/internal/server/handler"
	"github.com/UkemeSkywalker/Quanta/internal/server/router"
	"github.com/UkemeSkywalker/Quanta/internal/workflow"
	"github.com/UkemeSkywalker/Quanta/shared/logger"
	"github.com/UkemeSkywalker/Quanta/shared/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("QUANTA_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting Quanta server",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Connection hub: the single process-wide registry every task shares
	connHub := hub.NewHub(appLogger.Logger)
	tracker := workflow.NewTracker()

	// Agent factory
	apiKey := cfg.Agents.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	agents := agent.NewFactory(&agent.Config{
		Provider: cfg.Agents.Provider,
		Model:    cfg.Agents.Model,
		APIKey:   apiKey,
		Logger:   appLogger.Logger,
	})

	// Optional AMQP event tap mirroring broadcasts to an exchange
	var broadcaster workflow.Broadcaster = connHub
	var rabbitClient *rabbitmq.Client
	if cfg.Events.Enabled {
		rabbitClient, err = initRabbitMQ(&cfg.Events, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		appLogger.Info("RabbitMQ event tap enabled",
			slog.String("exchange", cfg.Events.Exchange.Name),
		)
		broadcaster = events.NewFanout(connHub, events.NewTap(rabbitClient, appLogger.Logger))
	}

	// Initialize router
	r := initRouter(cfg, appLogger.Logger, connHub, tracker, agents, broadcaster)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("Quanta server is running",
		slog.String("address", addr),
		slog.String("agents_provider", cfg.Agents.Provider),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer func() {
		if rabbitClient != nil {
			rabbitClient.Close()
		}
	}()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initRabbitMQ initializes the RabbitMQ event publisher
func initRabbitMQ(cfg *config.EventsConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// stagesFromConfig builds the workflow stage list, falling back to the
// built-in research stages when none are configured.
func stagesFromConfig(cfg *config.WorkflowConfig) []workflow.Stage {
	if len(cfg.Stages) == 0 {
		return workflow.DefaultResearchStages()
	}

	stages := make([]workflow.Stage, len(cfg.Stages))
	for i, st := range cfg.Stages {
		stages[i] = workflow.Stage{
			Name:     st.Name,
			Duration: st.Duration,
			Message:  st.Message,
		}
	}
	return stages
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(
	cfg *config.Config,
	logger *slog.Logger,
	connHub *hub.Hub,
	tracker *workflow.Tracker,
	agents *agent.Factory,
	broadcaster workflow.Broadcaster,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	handlerDeps := &handler.Dependencies{
		Logger:      logger,
		Hub:         connHub,
		Tracker:     tracker,
		Agents:      agents,
		Stages:      stagesFromConfig(&cfg.Workflow),
		Broadcaster: broadcaster,
		Run:         agents.Run(),
		AppName:     cfg.App.Name,
		AppVersion:  cfg.App.Version,
	}

	return router.SetupRouter(handlerDeps)
}
