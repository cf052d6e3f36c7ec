package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Plabrum/managerlab-sub002/internal/api"
	"github.com/Plabrum/managerlab-sub002/internal/models"
	"github.com/Plabrum/managerlab-sub002/internal/query"
)

var (
	listFilters []string
	listSort    string
	listDesc    bool
	listPage    int
	listPerPage int
)

var listCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "List a collection (brands, campaigns, roster, deliverables, invoices, media)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		filters, err := parseKeyValues(listFilters)
		if err != nil {
			return err
		}
		objectType := models.ObjectType(args[0])
		req := api.ListRequest{
			Filters:  filters,
			SortBy:   listSort,
			SortDesc: listDesc,
			Page:     listPage,
			PerPage:  listPerPage,
		}

		resp, err := fetchList(ctx, e, objectType, req)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d total, page %d)",
			objectType, resp.Total, resp.Page.Page)))
		for _, obj := range resp.Items {
			fmt.Println("  " + renderObjectLine(obj))
		}
		if len(resp.Actions) > 0 {
			fmt.Println(dimStyle.Render("actions: " + actionKeys(resp.Actions)))
		}
		return nil
	},
}

// fetchList serves from the query cache when the same view-state was
// fetched within the staleness window.
func fetchList(ctx context.Context, e *env, t models.ObjectType, req api.ListRequest) (*api.ListResponse, error) {
	key := query.ListKey(t, req.Encode())
	if v, ok := e.cache.Get(key); ok {
		if resp, ok := v.(*api.ListResponse); ok {
			return resp, nil
		}
	}
	resp, err := e.client.ListObjects(ctx, t, req)
	if err != nil {
		return nil, err
	}
	e.cache.Set(key, resp)
	return resp, nil
}

func renderObjectLine(obj models.Object) string {
	id := obj.ID()
	name, _ := obj["name"].(string)
	if name == "" {
		name, _ = obj["title"].(string)
	}
	state, _ := obj["state"].(string)
	line := fmt.Sprintf("%-36s  %s", id, name)
	if state != "" {
		line += "  " + dimStyle.Render("["+state+"]")
	}
	return line
}

func actionKeys(actions []models.Action) string {
	sorted := append([]models.Action(nil), actions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	out := ""
	for _, a := range sorted {
		if !a.Available {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += a.Key
	}
	return out
}

func init() {
	listCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "Filter as field=value (repeatable)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort field")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")
	listCmd.Flags().IntVar(&listPage, "page", 0, "Page number")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Page size")
	rootCmd.AddCommand(listCmd)
}
