package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/server"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/urfave/cli/v3"
)

// loginTimeout bounds how long the CLI waits for the browser round trip.
const loginTimeout = 3 * time.Minute

// AuthLogin runs the full PKCE authorization flow: it opens the provider's
// consent page in the browser, serves the redirect on a short-lived local
// HTTP server, exchanges the authorization code, and caches the token in
// the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: set credentials.spotify.client_id in config.toml first", shared.ErrMissingCredentials)
	}

	attempt, authURL, err := r.service.BeginLogin()
	if err != nil {
		return fmt.Errorf("failed to start login: %w", err)
	}

	handler := server.NewCallbackHandler(r.service, attempt)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Errorf("callback server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	r.logger.Info("waiting for authorization", "listen", addr)
	r.writePlainln("Opening your browser to authorize %s...", r.service.Name())
	r.writePlainln("If it does not open, visit:\n\n  %s\n", authURL)

	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("could not open browser: %v", err)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		if err := r.saveTokens(result.Token); err != nil {
			return err
		}
		r.writePlain("✓ Logged in to %s\n", r.service.Name())
		if r.configPath != "" {
			r.writePlain("Token cached in %s\n", r.configPath)
		}
		return nil
	case <-time.After(loginTimeout):
		return fmt.Errorf("%w: no authorization received within %s", shared.ErrTimeout, loginTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AuthStatus reports whether a usable session exists by asking the provider
// for the current user profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return r.writePlain("✗ Not configured: set credentials.spotify.client_id in config.toml\n")
	}

	user, err := r.service.CurrentUser(ctx)
	if err != nil {
		r.logger.Debugf("profile request failed: %v", err)
		return r.writePlain("✗ Not authenticated: run 'cysort auth login'\n")
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	r.writePlain("✓ Authenticated with %s\n", r.service.Name())
	r.writePlain("Account: %s (%s)\n", name, user.ID)
	return nil
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify in the browser (PKCE)",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}
