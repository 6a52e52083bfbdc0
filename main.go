// ./main.go
package main

import (
	"github.com/docpilot/docpilot/cmd"
)

// main is the entry point for the docpilot application. All command-line
// parsing, configuration and execution lives in the cmd package.
func main() {
	cmd.Execute()
}
