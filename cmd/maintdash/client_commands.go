package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jrsteele09/go-maint-dashboard/apiclient"
	"github.com/jrsteele09/go-maint-dashboard/internal/config"
	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// withClient opens the session backend, builds a client over it and runs fn
func withClient(cmd *cobra.Command, fn func(*apiclient.Client) error) error {
	cfg := config.New()
	repo, closeRepo, err := newSessionRepo(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Warn().Err(err).Msg("failed to close session backend")
		}
	}()

	client := apiclient.New(cfg, session.NewStore(repo, session.WithLogger(log.Logger)), apiclient.WithLogger(log.Logger))
	return explain(fn(client))
}

// explain turns a session-expired error into a prompt to sign in again
func explain(err error) error {
	if apiclient.IsSessionExpired(err) {
		return errors.New("session expired, run `maintdash login` to sign in again")
	}
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("MAINTDASH_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password (or MAINTDASH_PASSWORD) are required")
			}
			return withClient(cmd, func(c *apiclient.Client) error {
				sess, err := c.Login(cmd.Context(), apiclient.Credentials{Email: email, Password: password})
				if err != nil {
					return err
				}
				name := email
				if sess.User != nil && sess.User.Name != "" {
					name = sess.User.Name
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and remove it locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(c *apiclient.Client) error {
				if err := c.Logout(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user as the server sees it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(c *apiclient.Client) error {
				var me session.UserProfile
				if err := c.Get(cmd.Context(), apiclient.RouteMe, &me); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), me)
			})
		},
	}
}

func requestCmd() *cobra.Command {
	var body string
	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send an authenticated request and print the response body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := apiclient.RequestConfig{
				Method: strings.ToUpper(args[0]),
				Path:   args[1],
			}
			if body != "" {
				rc.Body = []byte(body)
				rc.Header = http.Header{"Content-Type": []string{"application/json"}}
			}
			return withClient(cmd, func(c *apiclient.Client) error {
				res, err := c.Do(cmd.Context(), rc)
				if err != nil {
					return err
				}
				if len(res.Body) == 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\n", res.StatusCode)
					return nil
				}
				_, err = cmd.OutOrStdout().Write(append(res.Body, '\n'))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&body, "data", "", "JSON request body")
	return cmd
}
