package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crepbook/internal/ipc"
)

var serveAddr string

func buildServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the filesystem and settings commands to the desktop shell",
		Long: `Starts the local IPC bridge. Commands are invoked with

  POST /invoke/<command>   {"filename": "..."}

and answer {"ok": true, "data": ...} or {"ok": false, "error": ..., "kind": ...}.
GET /health reports liveness. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default $CREPBOOK_IPC_ADDR or 127.0.0.1:7410)")
	return cmd
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.IPC.Addr = serveAddr
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	svc, err := newUseCaseService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ipc bridge",
		zap.String("addr", cfg.IPC.Addr),
		zap.String("root", svc.Ops().Root()),
		zap.Bool("journal", cfg.Paths.Journal))

	return ipc.NewServer(ipc.NewRouter(svc, logger.Logger), logger.Logger).ListenAndServe(ctx, cfg.IPC.Addr)
}
