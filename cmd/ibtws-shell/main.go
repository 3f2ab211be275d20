// Command ibtws-shell is an interactive demo client: it connects to a
// TWS/Gateway instance, requests the next valid order id and the managed
// account list, prints every inbound event to stdout, and shuts down
// cleanly on SIGINT/SIGTERM, the way
// minis/09-http-server-graceful wires signal-driven shutdown into a
// long-running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/user/ibtws"
	"github.com/user/ibtws/ibconfig"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ibtws-shell:", err)
		os.Exit(1)
	}
}

func run() error {
	host := flag.String("host", "127.0.0.1", "gateway host")
	port := flag.Int("port", 4001, "gateway port")
	clientID := flag.Int64("client-id", 0, "API client id")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	sessionID := uuid.NewString()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Str("session_id", sessionID).Logger()

	cfg := ibconfig.Default()
	cfg.Host = *host
	cfg.Port = *port
	cfg.ClientID = *clientID

	client := ibtws.New(cfg, ibtws.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverVersion, connectionTime, err := client.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	logger.Info().Int("server_version", serverVersion).Str("connection_time", connectionTime).Msg("connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range client.Events() {
			if ev.Kind == ibtws.KindStop {
				logger.Info().Msg("event stream stopped")
				return
			}
			fmt.Printf("%+v\n", ev)
		}
	}()

	if err := client.ReqIDs(1); err != nil {
		logger.Warn().Err(err).Msg("req_ids")
	}
	if err := client.ReqManagedAccts(); err != nil {
		logger.Warn().Err(err).Msg("req_managed_accts")
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	if err := client.Disconnect(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	<-done
	return nil
}
