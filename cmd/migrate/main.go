package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	var (
		databaseURL string
		source      string
		direction   string
	)

	flag.StringVar(&databaseURL, "database", os.Getenv("DATABASE_URL"), "Database connection URL (defaults to DATABASE_URL)")
	flag.StringVar(&source, "source", "db/migrations", "Path to migrations directory")
	flag.StringVar(&direction, "direction", "up", "Migration direction: up or down")
	flag.Parse()

	if databaseURL == "" {
		log.Fatal("-database flag or DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("failed to create database driver: %v", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", source),
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		log.Fatalf("unknown direction %q (want up or down)", direction)
	}

	if err != nil {
		if err == migrate.ErrNoChange {
			log.Println("no migrations to apply")
			return
		}
		log.Fatalf("failed to run %s migrations: %v", direction, err)
	}
	log.Printf("%s migrations completed successfully", direction)
}
