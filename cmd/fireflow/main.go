// fireflow CLI - form and list client for a collection of users
package main

import "github.com/getmockd/fireflow/pkg/cli"

func main() {
	cli.Execute()
}
