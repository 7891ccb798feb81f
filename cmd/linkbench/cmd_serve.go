package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agenthands/linkbench/internal/core"
	"github.com/agenthands/linkbench/internal/core/linking"
	"github.com/agenthands/linkbench/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownGrace = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the linker and run comparison over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			stack, err := linking.Build(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			srv := server.NewServer(core.NewBench(a.cfg, stack.Predictor, a.logger), a.logger)
			httpServer := &http.Server{
				Addr:              ":" + a.cfg.Server.Port,
				Handler:           srv.SetupRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", zap.String("addr", httpServer.Addr), zap.String("linker", stack.Name))
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
}
