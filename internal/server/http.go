// Package server exposes the webhook over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lineglot/lineglot/internal/bot"
	"github.com/lineglot/lineglot/internal/line"
	"github.com/lineglot/lineglot/internal/metrics"
)

// maxBodyBytes bounds a webhook delivery; the platform sends small JSON
// payloads, anything bigger is noise.
const maxBodyBytes = 1 << 20

// Server is the webhook HTTP front end.
type Server struct {
	addr       string
	secret     string
	dispatcher *bot.Dispatcher
	log        zerolog.Logger
	engine     *gin.Engine
}

// New builds the server. secret is the shared webhook channel secret.
func New(addr, secret string, dispatcher *bot.Dispatcher, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true

	s := &Server{
		addr:       addr,
		secret:     secret,
		dispatcher: dispatcher,
		log:        log,
		engine:     engine,
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.POST("/webhook", s.handleWebhook)

	return s
}

// Handler returns the underlying HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleWebhook(c *gin.Context) {
	// The signature covers the exact raw bytes; read them before any JSON
	// binding touches the body.
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordDelivery("500")
		c.String(http.StatusInternalServerError, "failed to read body")
		return
	}

	if !line.ValidateSignature(s.secret, c.GetHeader(line.SignatureHeader), body) {
		metrics.RecordDelivery("401")
		s.log.Warn().Str("remote", c.ClientIP()).Msg("webhook signature rejected")
		c.String(http.StatusUnauthorized, "invalid signature")
		return
	}

	var payload line.WebhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordDelivery("400")
		c.String(http.StatusBadRequest, "malformed payload")
		return
	}

	if len(payload.Events) > 0 {
		s.dispatcher.HandleEvents(c.Request.Context(), payload.Events)
	}

	metrics.RecordDelivery("200")
	c.String(http.StatusOK, "OK")
}

// Run starts the listener and shuts down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("webhook server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down webhook server")
	return srv.Shutdown(shutdownCtx)
}
