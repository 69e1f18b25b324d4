package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/getmockd/fireflow/pkg/collection"
)

var listWhere string

// ListOutput is the JSON shape of `fireflow list`.
type ListOutput struct {
	Users []collection.Record `json:"users"`
	Total int                 `json:"total"`
	Count int                 `json:"count"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users in the collection",
	Example: `  fireflow list
  fireflow list --where 'name startsWith "A"'
  fireflow list --where 'int(age) >= 30' --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listWhere, "where", "w", "", "Only show users matching this expression (fields: id, name, age)")
}

func runList(_ *cobra.Command, _ []string) error {
	filter, err := compileFilter(listWhere)
	if err != nil {
		return err
	}

	ctrl, err := openController(context.Background())
	if err != nil {
		return err
	}

	all := ctrl.Records()
	users, err := filter.Apply(all)
	if err != nil {
		return err
	}
	if users == nil {
		users = []collection.Record{}
	}

	printList(ListOutput{Users: users, Total: len(all), Count: len(users)}, func() {
		printRecords(users)
	})
	return nil
}
