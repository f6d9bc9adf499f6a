package db

import (
	"log"
	"os"

	"github.com/gupranay/recruitment-v11-sub000/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=recruit port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Migrate creates/updates the schema. Shared with tests, which run it
// against an in-memory SQLite database.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.RecruitmentCycle{},
		&models.RecruitmentRound{},
		&models.Applicant{},
		&models.ApplicantRound{},
		&models.DelibsSession{},
		&models.DelibsVote{},
		&models.AuditEvent{},
	)
}
