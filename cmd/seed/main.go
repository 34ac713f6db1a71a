// Command main runs the database seeder for the Telework backend.
package main

import (
	"flag"
	"log"

	"telework/internal/config"
	"telework/internal/database"
	"telework/internal/seed"
)

func main() {
	// Parse command line flags
	numEmployees := flag.Int("employees", 50, "Number of employees to create")
	numRequests := flag.Int("requests", 80, "Number of recurring requests to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixture := flag.String("fixture", "", "Path to a YAML employee fixture (skips fake employees)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *fixture != "" {
		if *shouldClean {
			if err := s.ClearAll(); err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
		}
		n, err := s.LoadEmployeeFixture(*fixture)
		if err != nil {
			log.Fatalf("Fixture load failed: %v", err)
		}
		log.Printf("Loaded %d employees from %s", n, *fixture)
		return
	}

	if err := s.Seed(seed.Options{
		NumEmployees: *numEmployees,
		NumRequests:  *numRequests,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
