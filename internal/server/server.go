package server

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/agenthands/linkbench/internal/core"
	"github.com/agenthands/linkbench/internal/core/model"
	"github.com/agenthands/linkbench/internal/core/resultset"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	Bench  *core.Bench
	Logger *zap.Logger
}

func NewServer(bench *core.Bench, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Bench: bench, Logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", s.Health)
	r.POST("/link", s.Link)
	r.POST("/compare", s.Compare)

	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.Logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type LinkRequest struct {
	ID        string `json:"id"`
	Utterance string `json:"utterance" binding:"required"`
}

type LinkResponse struct {
	ID       string             `json:"id,omitempty"`
	Entities []string           `json:"entities"`
	Spans    []model.Span       `json:"spans"`
	Result   model.LinkerResult `json:"result"`
}

func (s *Server) Link(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	spans, result, err := s.Bench.Resolve(c.Request.Context(), req.Utterance)
	if err != nil {
		s.Logger.Warn("linking failed", zap.String("id", req.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Linker failed"})
		return
	}

	c.JSON(http.StatusOK, LinkResponse{ID: req.ID, Entities: model.EntityIDs(spans), Spans: spans, Result: result})
}

type CompareRequest struct {
	Base string `json:"base" binding:"required"`
	DirA string `json:"dir_a" binding:"required"`
	DirB string `json:"dir_b" binding:"required"`
}

func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !validName(req.Base) || !validName(req.DirA) || !validName(req.DirB) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Names must not contain path separators"})
		return
	}

	ids, err := s.Bench.Missing(req.Base, req.DirA, req.DirB)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"identifiers": ids})
	case errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "Experiment file not found"})
	case errors.Is(err, resultset.ErrMissingDelimiter):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.Logger.Error("compare failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare"})
	}
}

// validName keeps request names inside the experiment root.
func validName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == '\\' {
			return false
		}
	}
	return true
}
