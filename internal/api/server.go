package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/virtual-patient-simulator/internal/domain"
	"github.com/virtual-patient-simulator/internal/simulation"
)

// SimulationEngine is the orchestrator surface the server exposes. Kept as an
// interface so handler tests inject a fake engine.
type SimulationEngine interface {
	RunOne(ctx context.Context) (*domain.SimulationRecord, error)
	RunBatch(ctx context.Context, n int) []simulation.BatchResult
}

// Server represents the HTTP server
type Server struct {
	config  *domain.Config
	engine  SimulationEngine
	history domain.HistoryStore
	router  *gin.Engine
	server  *http.Server
}

// NewServer creates a new HTTP server instance. The history store may be nil
// when run summaries are disabled.
func NewServer(cfg *domain.Config, engine SimulationEngine, history domain.HistoryStore) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())

	server := &Server{
		config:  cfg,
		engine:  engine,
		history: history,
		router:  router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/simulate", s.handleSimulate)
		v1.POST("/simulate/batch", s.handleSimulateBatch)
		v1.GET("/simulations/recent", s.handleRecentSimulations)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   "1.0.0",
	})
}

// handleSimulate runs a single virtual patient simulation
func (s *Server) handleSimulate(c *gin.Context) {
	record, err := s.engine.RunOne(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if record.Unpersisted {
		// Result is still usable, but the caller should know it was not stored.
		c.Header("X-Unpersisted", "true")
	}
	c.JSON(http.StatusOK, record)
}

type batchRequest struct {
	Count int `json:"count" binding:"required,min=1,max=1000"`
}

// handleSimulateBatch runs a batch of independent simulations
func (s *Server) handleSimulateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := s.engine.RunBatch(c.Request.Context(), req.Count)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   req.Count,
		"failed":  failed,
		"results": results,
	})
}

// handleRecentSimulations lists run summaries from the history store
func (s *Server) handleRecentSimulations(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "simulation history is disabled"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
	}

	summaries, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": summaries})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware adds a unique request ID to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// generateRequestID generates a simple request ID
func generateRequestID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
