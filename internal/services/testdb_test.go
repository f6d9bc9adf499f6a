package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB points db.DB at a fresh in-memory SQLite database. Each test
// gets its own database; the shared cache is purged because row IDs repeat
// between databases.
func setupTestDB(t *testing.T) {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:servicestest%d?mode=memory&cache=shared", n)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb
	utils.GetCache().Purge()
}

type fixture struct {
	Org    models.Organization
	Owner  models.User
	Admin  models.User
	Voter1 models.User
	Voter2 models.User

	Cycle  models.RecruitmentCycle
	Round1 models.RecruitmentRound
	Round2 models.RecruitmentRound

	ApplicantRounds []models.ApplicantRound // in Round1, one per applicant
}

// seedFixture creates an organization with four members (owner, admin, two
// plain members), a cycle with two rounds, and n applicants placed in the
// first round.
func seedFixture(t *testing.T, applicants int) *fixture {
	t.Helper()

	f := &fixture{}

	users := []*models.User{&f.Owner, &f.Admin, &f.Voter1, &f.Voter2}
	for i, u := range users {
		u.Username = fmt.Sprintf("user%d", i)
		u.Email = fmt.Sprintf("user%d@example.com", i)
		u.Password = "x"
		if err := db.DB.Create(u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	f.Org = models.Organization{Name: "Acme Recruiting"}
	if err := db.DB.Create(&f.Org).Error; err != nil {
		t.Fatalf("failed to create org: %v", err)
	}
	roles := []string{models.RoleOwner, models.RoleAdmin, models.RoleMember, models.RoleMember}
	for i, u := range users {
		m := models.OrganizationMember{OrganizationID: f.Org.ID, UserID: u.ID, Role: roles[i]}
		if err := db.DB.Create(&m).Error; err != nil {
			t.Fatalf("failed to create member: %v", err)
		}
	}

	f.Cycle = models.RecruitmentCycle{OrganizationID: f.Org.ID, Name: "Fall 2026"}
	if err := db.DB.Create(&f.Cycle).Error; err != nil {
		t.Fatalf("failed to create cycle: %v", err)
	}
	f.Round1 = models.RecruitmentRound{RecruitmentCycleID: f.Cycle.ID, Name: "Interviews", Position: 1}
	f.Round2 = models.RecruitmentRound{RecruitmentCycleID: f.Cycle.ID, Name: "Final Review", Position: 2}
	for _, r := range []*models.RecruitmentRound{&f.Round1, &f.Round2} {
		if err := db.DB.Create(r).Error; err != nil {
			t.Fatalf("failed to create round: %v", err)
		}
	}

	for i := 0; i < applicants; i++ {
		a := models.Applicant{
			UID:                fmt.Sprintf("uid-%d-%d", f.Cycle.ID, i),
			RecruitmentCycleID: f.Cycle.ID,
			Name:               fmt.Sprintf("Applicant %c", 'A'+i),
		}
		if err := db.DB.Create(&a).Error; err != nil {
			t.Fatalf("failed to create applicant: %v", err)
		}
		ar := models.ApplicantRound{
			ApplicantID:        a.ID,
			RecruitmentRoundID: f.Round1.ID,
			Status:             models.ApplicantStatusInProgress,
		}
		if err := db.DB.Create(&ar).Error; err != nil {
			t.Fatalf("failed to create applicant round: %v", err)
		}
		f.ApplicantRounds = append(f.ApplicantRounds, ar)
	}

	return f
}

// openSession creates the round's delibs session via the service.
func openSession(t *testing.T, f *fixture, requesterID uint) *models.DelibsSession {
	t.Helper()
	session, _, _, err := GetOrCreateSession(f.Round1.ID, requesterID)
	if err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}
	return session
}
