package cli

import (
	"fmt"

	"github.com/getmockd/fireflow/pkg/cli/internal/output"
	"github.com/getmockd/fireflow/pkg/collection"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. Human-readable prose (progress messages, hints) must go to stderr
// or be omitted entirely. textFn is called only in text mode.
func printResult(data any, textFn func()) {
	if jsonOutput {
		_ = output.JSON(data)
		return
	}
	textFn()
}

// printList outputs a collection of items.
//
// Same contract as printResult. textFn typically uses output.Table() for
// aligned columns.
func printList(data any, textFn func()) {
	if jsonOutput {
		_ = output.JSON(data)
		return
	}
	textFn()
}

// printRecords writes records as an aligned table.
func printRecords(records []collection.Record) {
	if len(records) == 0 {
		fmt.Println("No users.")
		return
	}
	tw := output.Table()
	fmt.Fprintf(tw, "ID\tNAME\tAGE\n")
	fmt.Fprintf(tw, "--\t----\t---\n")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Name, r.Age)
	}
	_ = tw.Flush()
}
