package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/fr4nk3nst1ner/jobboard/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the job board over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides web.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if servePort != 0 {
		cfg.Web.Port = servePort
	}

	f, err := newFetcher(cfg, nil)
	if err != nil {
		return err
	}

	newStorage, cleanup, err := storageFactory(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := web.Options{
		Port:       cfg.Web.Port,
		Username:   cfg.Web.Username,
		Password:   cfg.Web.Password,
		SessionTTL: cfg.Storage.SessionTTL,
	}
	sessions := web.NewSessions(newStorage, cfg.Storage.SessionTTL)
	srv := web.NewServer(opts, sessions, boardFactory(cfg, f, cfg.Display.NarrowCards, nil), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
