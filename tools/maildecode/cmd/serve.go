package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zostay/go-maildecode/internal/server"
)

// shutdownTimeout is how long in-flight requests get to finish on shutdown.
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP service decoding messages posted to it",
		Args:  cobra.NoArgs,
		RunE:  RunServe,
	}

	serveCmd.Flags().String("config", "", "YAML configuration file")
	serveCmd.Flags().String("listen", "", "address to listen on, overriding the configuration")

	return serveCmd
}

func RunServe(cmd *cobra.Command, _ []string) error {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	if listen != "" {
		cfg.Server.Listen = listen
	}

	logger := cfg.Logger(cmd.ErrOrStderr())

	sink, closer, err := cfg.Sink(logger)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	srv := server.New(logger, cfg.Policy(), sink, cfg.Server.MaxMessageSize)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	}()

	logger.Info("starting maildecode service", "listen", ln.Addr().String())

	if err := httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("maildecode service stopped")
	return nil
}
