package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/httpapi"
	"github.com/idilsaglam/tada/internal/metrics"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/ui"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the list as a JSON API",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = e.cfg.Serve.Addr
			}
			token, err := e.serveToken()
			if err != nil {
				return err
			}
			repo, kv, err := e.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []httpapi.Option{
				httpapi.WithLogger(e.logger),
				httpapi.WithMetrics(metrics.New()),
			}
			if token != "" {
				opts = append(opts, httpapi.WithToken(token))
			}
			srv := httpapi.New(ctx, repo, router.NewMemoryLocation(e.cfg.Route), opts...)
			defer srv.Close()

			ui.OK(e.stdout, fmt.Sprintf("serving on http://%s", addr))
			return httpapi.ListenAndServe(ctx, addr, srv.Handler(), e.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8080)")
	return cmd
}

// serveToken returns the saved token, or "" when auth is off.
func (e *env) serveToken() (string, error) {
	creds, err := e.credentials()
	if err != nil {
		return "", err
	}
	ti, err := creds.Get()
	if err != nil {
		return "", err
	}
	if ti != nil {
		return ti.Token, nil
	}
	if e.cfg.Serve.RequireAuth {
		return "", errors.New("serve.require_auth is set but no token is saved; run `tada auth login`")
	}
	return "", nil
}

func (e *env) credentials() (*auth.Credentials, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return auth.New(dir), nil
}

func newAuthCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token that protects `tada serve`",
	}

	login := &cobra.Command{
		Use:   "login [token]",
		Short: "Save a token (a random one when none is given)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := e.credentials()
			if err != nil {
				return err
			}
			token := uuid.NewString()
			if len(args) == 1 {
				token = args[0]
			}
			if err := creds.Set(token); err != nil {
				return err
			}
			ui.OK(e.stdout, "token saved")
			if len(args) == 0 {
				fmt.Fprintln(e.stdout, token)
			}
			return nil
		},
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := e.credentials()
			if err != nil {
				return err
			}
			if err := creds.Delete(); err != nil {
				return err
			}
			ui.OK(e.stdout, "logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the active token comes from",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := e.credentials()
			if err != nil {
				return err
			}
			ti, err := creds.Get()
			if err != nil {
				return err
			}
			if ti == nil {
				ui.Hint(e.stdout, "not logged in")
				return nil
			}
			msg := "logged in (" + ti.Source + ")"
			if !ti.CreatedAt.IsZero() {
				msg += ", saved " + ti.CreatedAt.Format("2006-01-02 15:04")
			}
			ui.OK(e.stdout, msg)
			return nil
		},
	}

	cmd.AddCommand(login, logout, status)
	return cmd
}
