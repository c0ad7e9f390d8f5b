// Package server exposes the prediction service over HTTP.
package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/pkg/errors"
	"github.com/YuminosukeSato/icesales/pkg/log"
	"github.com/YuminosukeSato/icesales/prediction"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
	// Mode is the gin mode. Empty keeps the current mode.
	Mode string
	// ModelPath is re-read by POST /reload.
	ModelPath string
}

// Server is the HTTP adapter over prediction.Service.
type Server struct {
	opts    Options
	handle  *model.Handle
	service *prediction.Service
	logger  log.Logger
	metrics *serverMetrics
	engine  *gin.Engine

	// load is swapped in tests
	load     func(string) (*model.FittedModel, error)
	reloadMu sync.Mutex
}

// New builds the router. The handle may publish nil until a model is loaded.
func New(handle *model.Handle, opts Options, logger log.Logger) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		opts:    opts,
		handle:  handle,
		service: prediction.NewService(handle),
		logger:  logger.With(log.ComponentKey, "server"),
		metrics: newServerMetrics(reg),
		load:    model.LoadModel,
	}
	s.observeModel(handle.Load())

	r := gin.New()
	r.Use(gin.Recovery(), s.instrument())
	r.GET("/", s.handleStatus)
	r.GET("/healthz", s.handleHealth)
	r.POST("/predict", s.handlePredict)
	r.POST("/reload", s.handleReload)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	s.engine = r
	return s
}

// Handler returns the router for use with httptest or a custom http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "listen on %s", s.opts.Addr)
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	return nil
}

// Reload re-reads the model file and publishes it. On failure the current
// model stays published.
func (s *Server) Reload() (*model.FittedModel, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	m, err := s.load(s.opts.ModelPath)
	if err != nil {
		s.metrics.reloads.WithLabelValues("failure").Inc()
		return nil, err
	}
	s.handle.Swap(m)
	s.observeModel(m)
	s.metrics.reloads.WithLabelValues("success").Inc()
	s.logger.Info("Model reloaded",
		log.OperationKey, log.OperationReload,
		log.ModelIDKey, m.Metadata().ID,
		log.SourceKey, s.opts.ModelPath,
	)
	return m, nil
}

func (s *Server) observeModel(m *model.FittedModel) {
	if m == nil {
		return
	}
	s.metrics.modelSlope.Set(m.Slope())
	s.metrics.modelIntercept.Set(m.Intercept())
}

func (s *Server) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		s.metrics.latency.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger.Debug("Request served",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			log.DurationMsKey, elapsed.Milliseconds(),
		)
	}
}
