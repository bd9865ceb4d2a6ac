// seed-admin creates or refreshes the four committee accounts. Safe to re-run;
// accounts are upserted by email and passwords are reset to the seed value.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// Override the default password with SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/models"
	"bitbucket.org/akitdaekm/membership_backend/utils"
)

const defaultSeedPassword = "admin123"

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.MigrateTable(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = defaultSeedPassword
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	seeds := []models.Admin{
		{Name: "Super Admin", Email: "admin@akitdaekm.com", Role: models.AdminRoleSuperAdmin},
		{Name: "President", Email: "president@akitdaekm.com", Role: models.AdminRolePresident},
		{Name: "Secretary", Email: "secretary@akitdaekm.com", Role: models.AdminRoleSecretary},
		{Name: "Treasurer", Email: "treasurer@akitdaekm.com", Role: models.AdminRoleTreasurer},
	}
	for _, seed := range seeds {
		seed.Password = hashed
		if err := models.UpsertAdmin(ctx, &seed); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed %s: %v\n", seed.Email, err)
			os.Exit(1)
		}
		fmt.Printf("Seeded admin: email=%q role=%s\n", seed.Email, seed.Role)
	}
}
