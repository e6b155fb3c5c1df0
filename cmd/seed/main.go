package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/voltshop/backend/config"
	"github.com/voltshop/backend/pkg/passhash"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Ensure base roles exist
	userRoleID, err := upsertRole(db, "User")
	if err != nil {
		log.Fatalf("failed to upsert User role: %v", err)
	}
	adminRoleID, err := upsertRole(db, "Admin")
	if err != nil {
		log.Fatalf("failed to upsert Admin role: %v", err)
	}
	fmt.Printf("roles ensured: User=%s Admin=%s\n", userRoleID, adminRoleID)

	username := getenv("SEED_ADMIN_USERNAME", "admin")
	email := getenv("SEED_ADMIN_EMAIL", "admin@voltshop.local")
	password := getenv("SEED_ADMIN_PASSWORD", "ChangeMe123!")

	hash, err := passhash.Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, username, email, password_hash, email_confirmed)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, uuid.NewString(), username, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s username=%s email=%s\n", id, username, email)

	for _, roleID := range []string{userRoleID, adminRoleID} {
		if _, err := db.Exec(`
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, id, roleID); err != nil {
			log.Fatalf("failed to assign role: %v", err)
		}
	}
	fmt.Println("assigned User and Admin roles to seeded admin (if not already)")
}

func upsertRole(db *sql.DB, name string) (string, error) {
	var id string
	err := db.QueryRow(`
		INSERT INTO roles (id, name, normalized_name)
		VALUES ($1, $2, upper($2))
		ON CONFLICT (normalized_name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, uuid.NewString(), name).Scan(&id)
	return id, err
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
