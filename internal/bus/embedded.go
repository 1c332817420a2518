package bus

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/config"
)

// EmbeddedServer runs an in-process NATS server for standalone and dev
// deployments where no external bus is available.
type EmbeddedServer struct {
	ns *server.Server
}

// StartEmbedded returns (nil, nil) when the config does not ask for an
// embedded server.
func StartEmbedded(cfg config.BusConfig) (*EmbeddedServer, error) {
	if !cfg.Embedded {
		return nil, nil
	}

	opts := &server.Options{
		Host: "0.0.0.0",
		Port: cfg.Port,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create embedded bus server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded bus server failed to start within 5 seconds")
	}

	log.Info().Str("module", "bus").Int("port", cfg.Port).Msg("embedded bus server started")
	return &EmbeddedServer{ns: ns}, nil
}

func (e *EmbeddedServer) ClientURL() string {
	return e.ns.ClientURL()
}

func (e *EmbeddedServer) Shutdown() {
	if e == nil || e.ns == nil {
		return
	}
	log.Info().Str("module", "bus").Msg("shutting down embedded bus server")
	e.ns.Shutdown()
	e.ns.WaitForShutdown()
}
