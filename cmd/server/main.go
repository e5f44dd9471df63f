// Command server runs the HTTP API. It is shorthand for "hsc serve".
package main

import (
	"log"
	"os"

	"github.com/health-signal-classifier/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := cmd.Execute(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
