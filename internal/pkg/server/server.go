// Package server runs an http.Server with graceful shutdown, shared by every
// service binary.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goshop/internal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Run serves handler on port until SIGINT/SIGTERM, then drains in-flight
// requests. It blocks for the lifetime of the process.
func Run(port string, handler http.Handler, log logger.Logger) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", map[string]interface{}{"port": port})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced server shutdown", err)
	}
	log.Info("server stopped", nil)
}
