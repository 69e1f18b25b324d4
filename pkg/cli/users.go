package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/getmockd/fireflow/pkg/cli/internal/output"
	"github.com/getmockd/fireflow/pkg/collection"
	"github.com/getmockd/fireflow/pkg/userui"
)

var (
	userName string
	userAge  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	Long: `Add a user to the collection.

Without --name and --age an interactive form is shown.`,
	Example: `  fireflow add --name Ann --age 30`,
	Args:    cobra.NoArgs,
	RunE:    runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a user's name and/or age",
	Long: `Change a user's name and/or age. Fields not given keep their current value.

Without --name and --age an interactive form prefilled with the current
values is shown.`,
	Example: `  fireflow update 1f0c... --age 31`,
	Args:    cobra.ExactArgs(1),
	RunE:    runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a user",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(addCmd, updateCmd, deleteCmd)
	for _, cmd := range []*cobra.Command{addCmd, updateCmd} {
		cmd.Flags().StringVar(&userName, "name", "", "User name")
		cmd.Flags().StringVar(&userAge, "age", "", "User age")
	}
}

// WriteOutput is the JSON shape of add and update.
type WriteOutput struct {
	User    collection.Record `json:"user"`
	Warning string            `json:"warning,omitempty"`
}

func runAdd(cmd *cobra.Command, _ []string) error {
	name, age := userName, userAge
	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("age") {
		if err := promptUser("Add user", &name, &age); err != nil {
			return err
		}
	}

	ctx := context.Background()
	ctrl, err := openController(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.SetInput(name, age); err != nil {
		return err
	}
	return submitAndPrint(ctx, ctrl, "Added")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ctrl, err := openController(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.EditByID(args[0]); err != nil {
		return userError(err, args[0])
	}

	form := ctrl.Form()
	name, age := form.Name, form.Age
	switch {
	case cmd.Flags().Changed("name") || cmd.Flags().Changed("age"):
		if cmd.Flags().Changed("name") {
			name = userName
		}
		if cmd.Flags().Changed("age") {
			age = userAge
		}
	default:
		if err := promptUser("Update user "+args[0], &name, &age); err != nil {
			return err
		}
	}

	if err := ctrl.SetInput(name, age); err != nil {
		return err
	}
	return submitAndPrint(ctx, ctrl, "Updated")
}

func runDelete(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	ctrl, err := openController(ctx)
	if err != nil {
		return err
	}

	id := args[0]
	if !slices.ContainsFunc(ctrl.Records(), func(r collection.Record) bool { return r.ID == id }) {
		return userError(&collection.NotFoundError{Resource: cfg.Collection, ID: id}, id)
	}

	var warning string
	if err := ctrl.Remove(ctx, id); err != nil {
		var re *userui.RefreshError
		if !errors.As(err, &re) {
			return err
		}
		warning = err.Error()
	}

	printResult(map[string]any{"deleted": id, "warning": warning}, func() {
		if warning != "" {
			output.Warn("%s", warning)
		}
		fmt.Printf("Deleted user %s\n", id)
	})
	return nil
}

// submitAndPrint submits the controller's form and reports the written user.
// A failed re-fetch after a successful write is reported as a warning.
func submitAndPrint(ctx context.Context, ctrl *userui.Controller, verb string) error {
	rec, err := ctrl.Submit(ctx)
	var warning string
	if err != nil {
		var re *userui.RefreshError
		if !errors.As(err, &re) {
			return err
		}
		warning = err.Error()
	}

	printResult(WriteOutput{User: rec, Warning: warning}, func() {
		if warning != "" {
			output.Warn("%s", warning)
		}
		fmt.Printf("%s user %s (name: %s, age: %s)\n", verb, rec.ID, rec.Name, rec.Age)
	})
	return nil
}

// userError rewords a not-found error for the command line.
func userError(err error, id string) error {
	if collection.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return err
}

// promptUser asks for a name and age, both required.
func promptUser(title string, name, age *string) error {
	if !isTerminal(os.Stdin) {
		return ErrNoTerminal
	}

	required := func(field string) func(string) error {
		return func(s string) error {
			if s == "" {
				return errors.New(field + " is required")
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(name).
				Validate(required("name")),
			huh.NewInput().
				Title("Age").
				Value(age).
				Validate(required("age")),
		).Title(title),
	)
	return form.Run()
}
