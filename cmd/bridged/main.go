package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpadapter "github.com/telesense/sensebridge/internal/adapters/http"
	"github.com/telesense/sensebridge/internal/bus"
	"github.com/telesense/sensebridge/internal/config"
	"github.com/telesense/sensebridge/internal/core"
	"github.com/telesense/sensebridge/internal/router"
)

const shutdownTimeout = 3 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Debug.DebugLogging {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !cfg.Debug.ColorLogging})

	embedded, err := bus.StartEmbedded(cfg.Bus)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start embedded bus")
	}
	if embedded != nil {
		defer embedded.Shutdown()
		cfg.Bus.Servers = []string{embedded.ClientURL()}
	}

	busClient, err := bus.Connect(cfg.Bus)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to bus")
	}
	defer busClient.Close()

	hub := core.NewHub(core.Specs)
	rt := router.New(hub, busClient)
	if err := rt.BindOutbound(); err != nil {
		log.Fatal().Err(err).Msg("failed to bind outbound topics")
	}

	engine := httpadapter.SetupRouter(ctx, cfg, hub, rt, busClient)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		log.Info().Str("module", "main").Str("addr", addr).Msg("bridge started")
		var err error
		if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Str("module", "main").Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	hub.CloseAll()
	log.Info().Str("module", "main").Msg("shutdown complete")
}
