// Package main is the one-shot sample-data seeder.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/djprofessorkash/pet-emporium-project/internal/repository"
	"github.com/djprofessorkash/pet-emporium-project/internal/seed"
)

func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	fmt.Println(">> Seeding data...")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := seed.Run(ctx, repo, rng); err != nil {
		fmt.Fprintln(os.Stderr, "seed failed:", err)
		os.Exit(1)
	}

	fmt.Println(">> Data seeding complete.")
}
