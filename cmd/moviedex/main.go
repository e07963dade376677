package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/moviedex/moviedex/internal/app"
)

func main() {
	// Missing .env is fine; config falls back to the process environment.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("moviedex failed to start: %v", err)
	}
}
