package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/infrastructure/server"
)

const (
	defaultListenAddress = "127.0.0.1:8080"
	readHeaderTimeout    = 10 * time.Second
	shutdownTimeout      = 15 * time.Second
)

// ServeController handles the "serve" subcommand, which exposes the CMS over HTTP.
type ServeController struct {
	opener    commands.OpenSession
	configure commands.Configure
	status    commands.Status
	updates   commands.Updates
	media     commands.Media
}

// NewServeController creates a new ServeController.
func NewServeController(
	opener commands.OpenSession,
	configure commands.Configure,
	status commands.Status,
	updates commands.Updates,
	media commands.Media,
) *ServeController {
	return &ServeController{
		opener:    opener,
		configure: configure,
		status:    status,
		updates:   updates,
		media:     media,
	}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Serve the CMS as a JSON API",
		Long: `Serve the CMS operations as a JSON API for the admin panel.

The session (repository identity and access token) lives for as long as the
server runs. The token can be replaced with PUT /session/token and dropped
with DELETE /session/token; it is never written to disk. Listen on a
loopback address unless the server sits behind an authenticating proxy.`,
		Args: cobra.NoArgs,
	}
}

// AddFlags adds the serve-specific flags to the given Cobra command.
func (it *ServeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("listen", defaultListenAddress, "Address to listen on")
}

// Execute runs the server until SIGINT or SIGTERM.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) error {
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}
	listen, _ := cmd.Flags().GetString("listen")

	handler := server.NewHandler(session, it.configure, it.status, it.updates, it.media)
	httpServer := &http.Server{
		Addr:              listen,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Serving %s on http://%s", session.Credentials.Identity(), listen)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
