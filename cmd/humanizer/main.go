package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
