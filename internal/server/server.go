// Package server is the HTTP boundary: multipart upload intake, the two
// extraction endpoints, ledger export, and health.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tanmodi/oorja-backend/internal/common"
	"github.com/tanmodi/oorja-backend/internal/export"
	"github.com/tanmodi/oorja-backend/internal/pipeline"
	"github.com/tanmodi/oorja-backend/internal/scratch"
)

type Server struct {
	pipe    *pipeline.Pipeline
	store   *scratch.Store
	exports *export.Service
	logger  *slog.Logger
}

func New(pipe *pipeline.Pipeline, store *scratch.Store, exports *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipe: pipe, store: store, exports: exports, logger: logger}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestID())
	r.Use(s.requestLog())

	r.GET("/healthz", s.healthz)

	api := r.Group("/api/v1")
	{
		api.POST("/bills/extract", s.extractBill)
		api.POST("/bills/compare", s.compareBill)
		api.GET("/models", s.listModels)
		api.GET("/usage/export", s.exportUsage)
	}
	return r
}

// requestID stamps every request with a UUID carried through the context
// into pipeline logs and ledger rows.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"req_id", common.RequestIDFromContext(c.Request.Context()),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail writes the stable error envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}
