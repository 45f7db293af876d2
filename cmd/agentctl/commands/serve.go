package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/haidt/agent-engine/internal/api/handler"
	"github.com/haidt/agent-engine/internal/api/router"
	"github.com/haidt/agent-engine/internal/broadcast"
	"github.com/haidt/agent-engine/internal/engine"
)

// newServeCommand starts the HTTP + WebSocket service in the foreground,
// same wiring as the engine-service binary
func newServeCommand(configFile *string) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the engine HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.cleanup()

			scheduler := engine.NewScheduler(a.registry, a.driver, a.store, a.logger.Logger)
			hub := broadcast.NewHub(a.logger.Logger)
			scheduler.AddListener(hub)

			gin.SetMode(gin.ReleaseMode)
			r := router.SetupRouter(&handler.Dependencies{
				Logger:    a.logger.Logger,
				Scheduler: scheduler,
				Hub:       hub,
				Registry:  a.registry,
				Driver:    a.driver,
				Store:     a.store,
			})

			if port == 0 {
				port = a.cfg.Server.Port
			}
			addr := fmt.Sprintf("%s:%d", host, port)
			srv := &http.Server{
				Addr:         addr,
				Handler:      r,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
				IdleTimeout:  a.cfg.Server.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			fmt.Fprintf(os.Stderr, "Engine serving on http://%s\n", addr)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host to bind")
	cmd.Flags().IntVar(&port, "port", 0, "Port to bind (defaults to the config server port)")

	return cmd
}
