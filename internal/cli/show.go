package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show <type> <id>",
	Short: "Show one object and its available actions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		resp, err := e.client.GetObject(ctx, models.ObjectType(args[0]), args[1])
		if err != nil {
			return err
		}

		fields := make([]string, 0, len(resp.Object))
		for k := range resp.Object {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		for _, k := range fields {
			fmt.Printf("%s %v\n", headerStyle.Render(fmt.Sprintf("%-14s", k)), resp.Object[k])
		}

		if len(resp.Actions) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("available actions"))
			for _, a := range resp.Actions {
				if !a.Available {
					continue
				}
				line := fmt.Sprintf("  %-32s %s", a.Key, a.Label)
				if a.Confirmation != "" {
					line += dimStyle.Render(" (confirms)")
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
