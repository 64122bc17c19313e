// Standalone snippet runner: executes one code snippet inside a throwaway
// container against the local Docker daemon and prints the captured output.
//
// Usage: go run ./example [language] [code]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/docker/client"

	"dockhand/manager"
)

func main() {
	lang := "python"
	code := "print(1+1)"
	if len(os.Args) > 2 {
		lang = os.Args[1]
		code = os.Args[2]
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		log.Fatalf("Failed to create docker client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	runner := manager.NewRunner(cli)
	output, err := runner.RunCode(ctx, lang, code, nil)
	if err != nil {
		log.Fatalf("Failed to run %s snippet: %v", lang, err)
	}

	fmt.Print(output)
}
