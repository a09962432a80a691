// courseqa is a virtual TA: it answers student questions from indexed
// course material and forum discussions, citing its sources.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/campuskit/courseqa/internal/adapters/driving/cli"
)

func main() {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
