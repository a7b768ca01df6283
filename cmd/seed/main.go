package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/mustafa-mbari/wmsv1-sub001/config"
)

// systemRoles is the fixed role hierarchy seeded into every environment.
// Slugs must match the authority table in the entity package.
var systemRoles = []struct {
	Slug        string
	Name        string
	Description string
}{
	{"super-admin", "Super Admin", "Unrestricted access to every operation"},
	{"admin", "Admin", "Full administrative access"},
	{"manager", "Manager", "Manages users and day-to-day operations"},
	{"supervisor", "Supervisor", "Oversees warehouse floor activity"},
	{"team-lead", "Team Lead", "Leads a picking or packing team"},
	{"operator", "Operator", "Executes warehouse tasks"},
	{"clerk", "Clerk", "Handles paperwork and data entry"},
	{"viewer", "Viewer", "Read-only access"},
	{"guest", "Guest", "Minimal temporary access"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	roleIDs := make(map[string]string, len(systemRoles))
	for _, r := range systemRoles {
		var id string
		err := db.QueryRow(`
			INSERT INTO roles (id, name, slug, description, is_active, is_system_role)
			VALUES ($1, $2, $3, $4, TRUE, TRUE)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, updated_at = now()
			RETURNING id
		`, uuid.NewString(), r.Name, r.Slug, r.Description).Scan(&id)
		if err != nil {
			log.Fatalf("failed to upsert role %s: %v", r.Slug, err)
		}
		roleIDs[r.Slug] = id
	}
	fmt.Printf("system roles ensured (%d)\n", len(roleIDs))

	username := getenv("SEED_ADMIN_USERNAME", "admin")
	email := getenv("SEED_ADMIN_EMAIL", "admin@wms.local")
	password := getenv("SEED_ADMIN_PASSWORD", "ChangeMe!123")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, is_active, is_email_verified, email_verified_at)
		VALUES ($1, $2, $3, $4, 'System', 'Administrator', TRUE, TRUE, now())
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id
	`, uuid.NewString(), username, email, string(hash)).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin user: id=%s email=%s username=%s\n", userID, email, username)

	if _, err := db.Exec(`
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID, roleIDs["super-admin"]); err != nil {
		log.Fatalf("failed to assign super-admin role: %v", err)
	}
	fmt.Println("assigned super-admin role to seeded user (if not already)")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
