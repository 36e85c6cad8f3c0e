package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-maint-dashboard/devserver"
	"github.com/jrsteele09/go-maint-dashboard/internal/config"
	refreshrepofake "github.com/jrsteele09/go-maint-dashboard/token/refresh/repofake"
	"github.com/jrsteele09/go-maint-dashboard/users"
	fakeuserrepo "github.com/jrsteele09/go-maint-dashboard/users/repofake"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveDevCmd() *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
		seed          bool
	)
	cmd := &cobra.Command{
		Use:   "serve-dev",
		Short: "Run an in-memory dashboard backend for local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := config.New()
			displayAppname(cmd, c.GetAppName())

			srv := devserver.New(c, fakeuserrepo.NewFakeUserRepo(), refreshrepofake.NewFakeRefreshTokenRepo(), log.Logger)
			generated, err := srv.SeedUser(adminEmail, "Dashboard", "Admin", adminPassword, users.RoleAdmin)
			if err != nil {
				return err
			}
			if generated != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Admin login: %s / %s\n", adminEmail, generated)
			}
			if seed {
				srv.SeedDemoSites()
			}

			server := &http.Server{Addr: c.GetPort(), Handler: srv, ReadHeaderTimeout: 10 * time.Second}
			errCh := make(chan error, 1)
			go func() { errCh <- listenAndServe(server) }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}
			return shutdown(server)
		},
	}
	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@maintdash.local", "email of the seeded admin account")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the seeded admin account (generated when empty)")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed demo CMS and helpdesk sites")
	return cmd
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("dev server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("dev server stopped")
	return nil
}

func displayAppname(cmd *cobra.Command, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), myFigure.String())
}
