package main

import (
	"github.com/joho/godotenv"

	"bookrag/internal/cli"
)

func main() {
	// API keys may live in a local .env; missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
