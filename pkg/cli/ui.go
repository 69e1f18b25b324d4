package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/fireflow/pkg/cli/internal/output"
	"github.com/getmockd/fireflow/pkg/userui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Interactive terminal form and list",
	Long: `Open an interactive form and list in the terminal.

The list is shown after every action. Choose an action to add a user, edit
or delete a listed user, refresh the list, or quit.`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

// uiAction is one entry of the action menu.
type uiAction string

const (
	actionSubmit  uiAction = "submit"
	actionEdit    uiAction = "edit"
	actionDelete  uiAction = "delete"
	actionCancel  uiAction = "cancel"
	actionRefresh uiAction = "refresh"
	actionQuit    uiAction = "quit"
)

func runUI(_ *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdin) {
		return ErrNoTerminal
	}

	ctx := context.Background()
	ctrl, err := openController(ctx)
	if ctrl == nil {
		return err
	}
	if err != nil {
		output.Warn("%v", err)
	}

	for {
		v := ctrl.Snapshot()
		renderView(os.Stdout, v)

		action, err := chooseAction(v)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if action == actionQuit {
			return nil
		}

		if err := runUIAction(ctx, ctrl, v, action); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			output.Warn("%v", err)
		}
	}
}

func runUIAction(ctx context.Context, ctrl *userui.Controller, v userui.View, action uiAction) error {
	switch action {
	case actionSubmit:
		name, age := v.Form.Name, v.Form.Age
		if err := promptUser(v.SubmitLabel+" user", &name, &age); err != nil {
			return err
		}
		if err := ctrl.SetInput(name, age); err != nil {
			return err
		}
		rec, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Saved user %s\n", rec.ID)

	case actionEdit:
		id, err := chooseRow(v, "Edit which user?")
		if err != nil {
			return err
		}
		return ctrl.EditByID(id)

	case actionDelete:
		id, err := chooseRow(v, "Delete which user?")
		if err != nil {
			return err
		}
		confirmed := false
		if err := huh.NewConfirm().Title("Delete user " + id + "?").Value(&confirmed).Run(); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
		return ctrl.Remove(ctx, id)

	case actionCancel:
		return ctrl.CancelEdit()

	case actionRefresh:
		return ctrl.Refresh(ctx)
	}
	return nil
}

// menuOptions lists the actions available in v.
func menuOptions(v userui.View) []huh.Option[uiAction] {
	submit := "Add user"
	if v.Form.Editing() {
		submit = "Update user " + v.Form.EditTarget
	}

	opts := []huh.Option[uiAction]{huh.NewOption(submit, actionSubmit)}
	if len(v.Rows) > 0 {
		opts = append(opts,
			huh.NewOption("Edit a user", actionEdit),
			huh.NewOption("Delete a user", actionDelete),
		)
	}
	if v.Form.Editing() {
		opts = append(opts, huh.NewOption("Cancel edit", actionCancel))
	}
	return append(opts,
		huh.NewOption("Refresh", actionRefresh),
		huh.NewOption("Quit", actionQuit),
	)
}

func chooseAction(v userui.View) (uiAction, error) {
	var action uiAction
	err := huh.NewSelect[uiAction]().
		Title("What next?").
		Options(menuOptions(v)...).
		Value(&action).
		Run()
	return action, err
}

func chooseRow(v userui.View, title string) (string, error) {
	opts := make([]huh.Option[string], 0, len(v.Rows))
	for _, row := range v.Rows {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s, %s)", row.Name, row.Age, row.ID), row.ID))
	}
	var id string
	err := huh.NewSelect[string]().Title(title).Options(opts...).Value(&id).Run()
	return id, err
}

// renderView prints the list and form state.
func renderView(w io.Writer, v userui.View) {
	fmt.Fprintf(w, "\n%s [%s]\n", cases.Title(language.English).String(v.Mode.String()), v.SubmitLabel)
	switch {
	case v.Loading:
		fmt.Fprintln(w, "Loading...")
	case len(v.Rows) == 0:
		fmt.Fprintln(w, "No users.")
	default:
		tw := output.TableTo(w)
		fmt.Fprintf(tw, " \tID\tNAME\tAGE\t\n")
		for _, row := range v.Rows {
			marker := " "
			if row.ID == v.Form.EditTarget {
				marker = ">"
			}
			status := ""
			if row.ID == v.DeletingID {
				status = row.DeleteLabel
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, row.ID, row.Name, row.Age, status)
		}
		_ = tw.Flush()
	}

	if v.Form.Editing() {
		fmt.Fprintf(w, "\nEditing %s: name=%q age=%q\n", v.Form.EditTarget, v.Form.Name, v.Form.Age)
	}
	if v.Error != "" {
		fmt.Fprintf(w, "\nLast error: %s\n", v.Error)
	}
}
