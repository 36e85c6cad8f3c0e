package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/go-maint-dashboard/apiclient"
	"github.com/jrsteele09/go-maint-dashboard/internal/utils"
	"github.com/jrsteele09/go-maint-dashboard/sites"
	"github.com/spf13/cobra"
)

const (
	kindCMS      = "cms"
	kindHelpdesk = "helpdesk"
)

func sitesCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Work with CMS and helpdesk sites",
	}
	cmd.PersistentFlags().StringVar(&kind, "kind", kindCMS, "site collection: cms or helpdesk")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List sites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withSites(cmd, kind, func(ctx context.Context, svc *sites.Service) error {
					return listSites(ctx, cmd.OutOrStdout(), svc, kind)
				})
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one site",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSites(cmd, kind, func(ctx context.Context, svc *sites.Service) error {
					var (
						site any
						err  error
					)
					if kind == kindHelpdesk {
						site, err = svc.Helpdesk.Get(ctx, args[0])
					} else {
						site, err = svc.CMS.Get(ctx, args[0])
					}
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), site)
				})
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a site",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSites(cmd, kind, func(ctx context.Context, svc *sites.Service) error {
					var err error
					if kind == kindHelpdesk {
						err = svc.Helpdesk.Delete(ctx, args[0])
					} else {
						err = svc.CMS.Delete(ctx, args[0])
					}
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func withSites(cmd *cobra.Command, kind string, fn func(context.Context, *sites.Service) error) error {
	if kind != kindCMS && kind != kindHelpdesk {
		return fmt.Errorf("unknown --kind %q, expected cms or helpdesk", kind)
	}
	return withClient(cmd, func(c *apiclient.Client) error {
		return fn(cmd.Context(), sites.NewService(c))
	})
}

func listSites(ctx context.Context, out io.Writer, svc *sites.Service, kind string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if kind == kindHelpdesk {
		list, err := svc.Helpdesk.List(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(tw, "ID\tNAME\tPROVIDER\tSTATUS\tOPEN TICKETS")
		for _, s := range list {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Provider, s.Status, utils.Value(s.OpenTickets))
		}
		return nil
	}

	list, err := svc.CMS.List(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPLATFORM\tVERSION\tSTATUS")
	for _, s := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Platform, s.Version, s.Status)
	}
	return nil
}
