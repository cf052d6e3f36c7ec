package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Plabrum/managerlab-sub002/internal/actions"
	"github.com/Plabrum/managerlab-sub002/internal/models"
)

var (
	actionObjectID string
	actionData     []string
	actionYes      bool
	actionType     string
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Run object actions",
}

var actionRunCmd = &cobra.Command{
	Use:   "run <action-key>",
	Short: "Run one action through its full lifecycle",
	Long: `Runs an action the way a detail or list page would: the backend's
confirmation message (if any) is prompted, the action's form is filled from
--data values layered over the object's current fields, and redirect or
download results are applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		actionKey := args[0]
		group, ok := groupOf(actionKey)
		if !ok {
			return fmt.Errorf("action key %q has no group prefix", actionKey)
		}

		// Detail-page shape when an object id is given, list-page shape
		// otherwise.
		var objectData models.Object
		currentPath := "/" + actionType
		action := models.Action{Key: actionKey, Group: group, Available: true}
		if actionObjectID != "" {
			currentPath += "/" + actionObjectID
			if actionType != "" {
				detail, err := e.client.GetObject(ctx, models.ObjectType(actionType), actionObjectID)
				if err != nil {
					return err
				}
				objectData = detail.Object
				for _, a := range detail.Actions {
					if a.Key == actionKey {
						action = a
					}
				}
			}
		}

		exec := actions.NewExecutor(actions.Config{
			Client:      e.client,
			Cache:       e.cache,
			Logger:      e.logger,
			ObjectID:    actionObjectID,
			ObjectData:  objectData,
			CurrentPath: currentPath,
		})
		exec.Navigate = func(path string) {
			fmt.Println(okStyle.Render("→ ") + path)
		}
		exec.Download = func(ctx context.Context, url, filename string) (string, error) {
			dest, err := e.client.Download(ctx, url, filename, e.cfg.DownloadDir)
			if err == nil {
				fmt.Println(okStyle.Render("downloaded ") + dest)
			}
			return dest, err
		}

		outcome, err := exec.Initiate(ctx, action)
		if err != nil {
			return err
		}

		if outcome == actions.OutcomeConfirm {
			if !actionYes && !confirm(action.Confirmation) {
				return exec.Cancel()
			}
			outcome, err = exec.Confirm(ctx)
			if err != nil {
				return err
			}
		}

		if outcome == actions.OutcomeForm {
			data, err := collectFormData(exec)
			if err != nil {
				_ = exec.Cancel()
				return err
			}
			if err := exec.ExecuteWithData(ctx, data); err != nil {
				return err
			}
		}

		fmt.Println(okStyle.Render("done ") + actionKey)
		return nil
	},
}

// groupOf splits "roster_actions__update" into its group prefix.
func groupOf(actionKey string) (string, bool) {
	i := strings.LastIndex(actionKey, "__")
	if i <= 0 {
		return "", false
	}
	return actionKey[:i], true
}

func confirm(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// collectFormData layers --data values over the registry's defaults and
// checks required fields.
func collectFormData(exec *actions.Executor) (map[string]any, error) {
	form, defaults := exec.PendingForm()

	provided, err := parseKeyValues(actionData)
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	for k, v := range defaults {
		data[k] = v
	}
	for k, v := range provided {
		data[k] = v
	}

	if form != nil {
		for _, f := range form.Fields {
			if f.Required {
				if v, ok := data[f.Name]; !ok || v == "" {
					return nil, fmt.Errorf("missing required field %q (use --data %s=...)", f.Name, f.Name)
				}
			}
		}
	}
	return data, nil
}

func init() {
	actionRunCmd.Flags().StringVar(&actionObjectID, "id", "", "Target object id (object-level action)")
	actionRunCmd.Flags().StringVar(&actionType, "type", "", "Object type, used to pre-fill form defaults")
	actionRunCmd.Flags().StringArrayVar(&actionData, "data", nil, "Form value as field=value (repeatable)")
	actionRunCmd.Flags().BoolVarP(&actionYes, "yes", "y", false, "Skip confirmation prompts")
	actionCmd.AddCommand(actionRunCmd)
	rootCmd.AddCommand(actionCmd)
}
