package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Plabrum/managerlab-sub002/internal/dashboards"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Inspect dashboards and their widget layout",
}

var dashboardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dashboards",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		svc := dashboards.NewService(e.client, e.cache, e.logger)
		ds, err := svc.List(ctx)
		if err != nil {
			return err
		}
		for _, d := range ds {
			fmt.Printf("%-36s  %s %s\n", d.ID, d.Name,
				dimStyle.Render(fmt.Sprintf("(%d widgets)", len(d.Widgets))))
		}
		return nil
	},
}

var dashboardShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one dashboard's resolved widget layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		svc := dashboards.NewService(e.client, e.cache, e.logger)
		d, err := svc.Get(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(d.Name))
		for _, w := range dashboards.Layout(d.Widgets) {
			fmt.Printf("  %-24s %-5s at (%d,%d) %dx%d  %s\n",
				w.Title, w.Type, w.Pos.X, w.Pos.Y, w.Pos.W, w.Pos.H,
				dimStyle.Render(fmt.Sprintf("%s %s over %s",
					w.Query.Aggregation, w.Query.Field, w.Query.TimeRange)))
		}
		return nil
	},
}

var dashboardCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		svc := dashboards.NewService(e.client, e.cache, e.logger)
		resp, err := svc.Create(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render("created"))
		if resp.Result.IsRedirect() {
			fmt.Println(dimStyle.Render("→ " + resp.Result.Path))
		}
		return nil
	},
}

func init() {
	dashboardCmd.AddCommand(dashboardListCmd, dashboardShowCmd, dashboardCreateCmd)
	rootCmd.AddCommand(dashboardCmd)
}
