// Command migrate creates the schema and can promote an existing account
// to admin.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func main() {
	promote := flag.String("promote", "", "email of a user to grant the admin role")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Schema is up to date")

	if *promote == "" {
		return
	}
	u, err := repo.New(gdb).SetUserRole(ctx, *promote, models.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to promote %s: %v\n", *promote, err)
		os.Exit(1)
	}
	fmt.Printf("%s is now %s\n", u.Email, u.Role)
}
