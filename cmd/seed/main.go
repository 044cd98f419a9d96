package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"caseclash/internal/catalog"
	"caseclash/internal/config"
	"caseclash/internal/database"
	"caseclash/internal/repository"
)

func main() {
	input := flag.String("input", "./data/cases.json", "Path to the cases JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Initialize(database.Options{
		Type: cfg.DatabaseType,
		Path: cfg.DatabasePath,
		URL:  cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *input, err)
	}

	var inputs []catalog.CaseInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		log.Fatalf("Failed to parse %s: %v", *input, err)
	}

	// Validate the whole file before touching the database
	if _, err := catalog.New(inputs); err != nil {
		log.Fatalf("Invalid case file: %v", err)
	}

	caseRepo := repository.NewCaseRepository(db)
	for _, in := range inputs {
		if err := caseRepo.Upsert(in); err != nil {
			log.Fatalf("Failed to upsert case %q: %v", in.Diagnosis, err)
		}
	}

	count, err := caseRepo.Count()
	if err != nil {
		log.Fatalf("Failed to count cases: %v", err)
	}
	log.Printf("Seed complete: %d cases loaded from %s, %d total in database", len(inputs), *input, count)
}
