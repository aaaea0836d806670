// Command seed-admin creates or resets the admin account in the configured
// database. With -hash it only prints a bcrypt hash of the password.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/folio-labs/portfolio-server/internal/database"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/service"
	"github.com/folio-labs/portfolio-server/internal/util"
)

type seedConfig struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Admin"`
}

func main() {
	_ = godotenv.Load()

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		fail(err)
	}

	email := flag.String("email", cfg.AdminEmail, "admin email (default $ADMIN_EMAIL)")
	name := flag.String("name", cfg.AdminName, "display name")
	hashOnly := flag.Bool("hash", false, "print a bcrypt hash of the password and exit")
	flag.Parse()

	// The password comes from the environment so it stays out of shell history.
	password := cfg.AdminPassword
	if password == "" {
		fmt.Fprintf(os.Stderr, "Usage: ADMIN_PASSWORD=... seed-admin [-email a@x.com] [-name Admin] [-hash]\n")
		os.Exit(1)
	}

	if *hashOnly {
		hash, err := util.HashPassword(password)
		if err != nil {
			fail(err)
		}
		fmt.Println(hash)
		return
	}

	if *email == "" || cfg.DatabaseURL == "" {
		fail(fmt.Errorf("DATABASE_URL and an admin email are required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx, database.Migrations()); err != nil {
		fail(err)
	}

	store := service.NewCredentialStore(repository.NewAdminCredentialRepository(db.DB))
	admin, err := store.Upsert(ctx, *email, password, *name)
	if err != nil {
		fail(err)
	}

	fmt.Printf("admin %s (%s) saved\n", admin.Email, admin.ID)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
