package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/validate"
	"go.uber.org/zap"
)

// Generic messages keep provider and internal detail out of responses
const (
	msgInvalidBody     = "invalid request body"
	msgHumanizeFailed  = "failed to humanize text"
	msgDetectFailed    = "failed to detect text"
	msgInternalFailure = "internal server error"
)

type humanizeResponse struct {
	Success bool `json:"success"`
	*model.HumanizeResult
}

type detectResponse struct {
	Success bool `json:"success"`
	*model.DetectResult
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "humanizer",
	})
}

func (s *Server) handleHumanize(c *gin.Context) {
	var req model.HumanizeRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := s.humanizer.Humanize(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err, msgHumanizeFailed)
		return
	}

	c.JSON(http.StatusOK, humanizeResponse{Success: true, HumanizeResult: res})
}

func (s *Server) handleDetect(c *gin.Context) {
	var req model.DetectRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := s.detector.Detect(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err, msgDetectFailed)
		return
	}

	c.JSON(http.StatusOK, detectResponse{Success: true, DetectResult: res})
}

// bind decodes the JSON body and checks its validate tags. An empty body
// is treated as a request without text.
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return false
	}
	if err := validate.Request(req); err != nil {
		s.writeError(c, err, msgInternalFailure)
		return false
	}
	return true
}

// writeError maps pipeline errors to responses. Only validation messages
// reach the caller; everything else is logged and answered generically.
func (s *Server) writeError(c *gin.Context, err error, generic string) {
	_ = c.Error(err)

	if ve, ok := model.IsValidation(err); ok {
		body := gin.H{"error": ve.Message}
		if ve.Limit > 0 {
			body["limit"] = ve.Limit
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
		return
	}

	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
	switch {
	case errors.Is(err, context.Canceled):
		s.log.Info("client went away", fields...)
	case model.IsUpstream(err):
		s.log.Error("upstream failure", fields...)
	default:
		s.log.Error("internal failure", fields...)
		generic = msgInternalFailure
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": generic})
}
