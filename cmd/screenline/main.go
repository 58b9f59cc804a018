package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/screenline-dev/screenline/internal/cli"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	cli.Execute()
}
