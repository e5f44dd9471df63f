// Command mcp-server serves the classifier as MCP tools over stdio. It is
// shorthand for "hsc mcp".
package main

import (
	"log"
	"os"

	"github.com/health-signal-classifier/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(append([]string{"mcp"}, os.Args[1:]...))
	if err := cmd.Execute(); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
