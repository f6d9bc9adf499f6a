package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Session lock actions.
const (
	ActionLock   = "lock"
	ActionUnlock = "unlock"
)

// GetOrCreateSession returns the round's delibs session, creating it on
// first access. The insert goes through ON CONFLICT DO NOTHING on the
// round's unique index, so two concurrent first-open requests converge on
// one row. Any organization member may trigger creation.
func GetOrCreateSession(roundID, requesterID uint) (*models.DelibsSession, string, string, error) {
	orgID, err := OrganizationForRound(roundID)
	if err != nil {
		return nil, "", "", err
	}
	role, err := ResolveRole(requesterID, orgID)
	if err != nil {
		return nil, "", "", err
	}

	var round models.RecruitmentRound
	if err := db.DB.First(&round, roundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrNotFound
		}
		return nil, "", "", err
	}

	session := models.DelibsSession{
		RecruitmentRoundID: roundID,
		CreatedBy:          requesterID,
		Status:             models.SessionStatusOpen,
	}
	err = db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recruitment_round_id"}},
		DoNothing: true,
	}).Create(&session).Error
	if err != nil {
		return nil, "", "", err
	}

	// Read back: on conflict the insert was a no-op and session.ID is zero.
	var existing models.DelibsSession
	if err := db.DB.Where("recruitment_round_id = ?", roundID).First(&existing).Error; err != nil {
		return nil, "", "", err
	}

	return &existing, role, round.Name, nil
}

// SetSessionStatus locks or unlocks a session. Owner/Admin only. Applying
// the current state again is a no-op that still returns the session.
func SetSessionStatus(sessionID uint, action string, requesterID uint) (*models.DelibsSession, error) {
	if action != ActionLock && action != ActionUnlock {
		return nil, ErrInvalidAction
	}

	var session models.DelibsSession
	if err := db.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	orgID, err := OrganizationForSession(&session)
	if err != nil {
		return nil, err
	}
	if _, err := RequireRole(requesterID, orgID, true); err != nil {
		return nil, err
	}

	target := models.SessionStatusOpen
	if action == ActionLock {
		target = models.SessionStatusLocked
	}
	if session.Status == target {
		return &session, nil
	}

	var lockedAt *time.Time
	if target == models.SessionStatusLocked {
		now := time.Now()
		lockedAt = &now
	}
	updates := map[string]interface{}{"status": target, "locked_at": lockedAt}
	if err := db.DB.Model(&session).Updates(updates).Error; err != nil {
		return nil, err
	}
	session.Status = target
	session.LockedAt = lockedAt

	auditAction := models.AuditSessionUnlocked
	if target == models.SessionStatusLocked {
		auditAction = models.AuditSessionLocked
	}
	GetAuditService().Record(orgID, requesterID, auditAction, fmt.Sprintf("session:%d", session.ID))

	return &session, nil
}

// CastVote upserts the voter's vote for an applicant round. Returns the
// vote and whether it was newly created. Preconditions, in order: valid
// value, open session (the lock is a hard gate for every role), applicant
// round in the session's round, caller a member of the owning organization.
func CastVote(sessionID, applicantRoundID, voterID uint, value int) (*models.DelibsVote, bool, error) {
	if !models.IsValidVoteValue(value) {
		return nil, false, ErrInvalidVoteValue
	}

	var vote models.DelibsVote
	created := false

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Lock state is authoritative per request: always a fresh read, the
		// session may have been locked since the client loaded the page.
		var session models.DelibsSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if session.Status == models.SessionStatusLocked {
			return ErrSessionLocked
		}

		var ar models.ApplicantRound
		if err := tx.First(&ar, applicantRoundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if ar.RecruitmentRoundID != session.RecruitmentRoundID {
			return ErrRoundMismatch
		}

		orgID, err := OrganizationForRound(session.RecruitmentRoundID)
		if err != nil {
			return err
		}
		if _, err := ResolveRole(voterID, orgID); err != nil {
			return err
		}

		// Decide created-vs-updated explicitly instead of comparing
		// timestamps after the fact. The write below is still an ON
		// CONFLICT upsert, so a concurrent first vote from the same voter
		// degrades to an update rather than a duplicate-key failure.
		var existing models.DelibsVote
		err = tx.Where("delibs_session_id = ? AND applicant_round_id = ? AND voter_user_id = ?",
			sessionID, applicantRoundID, voterID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
		} else if err != nil {
			return err
		}

		vote = models.DelibsVote{
			DelibsSessionID:  sessionID,
			ApplicantRoundID: applicantRoundID,
			VoterUserID:      voterID,
			VoteValue:        value,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "delibs_session_id"},
				{Name: "applicant_round_id"},
				{Name: "voter_user_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"vote_value": value,
				"updated_at": time.Now(),
			}),
		}).Create(&vote).Error; err != nil {
			return err
		}

		// After an update the Create left vote.ID untouched; read the row
		// back so callers always see the persisted state.
		return tx.Where("delibs_session_id = ? AND applicant_round_id = ? AND voter_user_id = ?",
			sessionID, applicantRoundID, voterID).First(&vote).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &vote, created, nil
}

// ClearVote deletes the voter's vote. Deleting a vote that does not exist
// is a no-op success. Same lock gate as CastVote.
func ClearVote(sessionID, applicantRoundID, voterID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var session models.DelibsSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if session.Status == models.SessionStatusLocked {
			return ErrSessionLocked
		}

		orgID, err := OrganizationForRound(session.RecruitmentRoundID)
		if err != nil {
			return err
		}
		if _, err := ResolveRole(voterID, orgID); err != nil {
			return err
		}

		return tx.Where("delibs_session_id = ? AND applicant_round_id = ? AND voter_user_id = ?",
			sessionID, applicantRoundID, voterID).
			Delete(&models.DelibsVote{}).Error
	})
}

// MyVote returns the voter's own vote for an applicant round, or nil if
// they have not voted. Allowed regardless of lock state.
func MyVote(sessionID, applicantRoundID, voterID uint) (*models.DelibsVote, error) {
	var session models.DelibsSession
	if err := db.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	orgID, err := OrganizationForRound(session.RecruitmentRoundID)
	if err != nil {
		return nil, err
	}
	if _, err := ResolveRole(voterID, orgID); err != nil {
		return nil, err
	}

	var vote models.DelibsVote
	err = db.DB.Where("delibs_session_id = ? AND applicant_round_id = ? AND voter_user_id = ?",
		sessionID, applicantRoundID, voterID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}
