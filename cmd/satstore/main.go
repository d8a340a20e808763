// satstore - satellite product storage tool
package main

import (
	"github.com/joho/godotenv"

	"github.com/eodrift/satstore/internal/cli"
)

func main() {
	// Connection strings usually live in a .env next to the invocation;
	// a missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
