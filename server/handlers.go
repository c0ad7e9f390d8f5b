package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YuminosukeSato/icesales/pkg/errors"
	"github.com/YuminosukeSato/icesales/pkg/log"
)

type predictRequest struct {
	Temperature *float64 `json:"temperature" binding:"required"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object with a numeric \"temperature\""})
		return
	}

	resp, err := s.service.Predict(*req.Temperature)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			s.logger.Error("Prediction failed", err, log.TemperatureKey, *req.Temperature)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	s.metrics.predictions.Inc()
	s.logger.Debug("Prediction served",
		log.OperationKey, log.OperationPredict,
		log.TemperatureKey, resp.Temperature,
		log.PredictionKey, resp.PredictedSales,
	)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStatus(c *gin.Context) {
	m := s.service.Model()
	if m == nil {
		c.JSON(http.StatusOK, gin.H{"status": "online", "model": nil})
		return
	}
	meta := m.Metadata()
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"model":     meta.ID,
		"algorithm": meta.Algorithm,
		"fitted_at": meta.FittedAt,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model_loaded": s.service.Model() != nil})
}

func (s *Server) handleReload(c *gin.Context) {
	m, err := s.Reload()
	if err != nil {
		s.logger.Error("Model reload failed", err, log.SourceKey, s.opts.ModelPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "model": m.Metadata().ID})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		valErr    *errors.ValueError
		notFitted *errors.NotFittedError
		numErr    *errors.NumericalInstabilityError
	)
	switch {
	case errors.Is(err, errors.ErrNoModel), errors.As(err, &notFitted):
		return http.StatusServiceUnavailable
	case errors.As(err, &valErr), errors.As(err, &numErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
