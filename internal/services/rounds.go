package services

import (
	"errors"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationForCycle resolves the organization owning a cycle.
func OrganizationForCycle(cycleID uint) (uint, error) {
	var cycle models.RecruitmentCycle
	if err := db.DB.First(&cycle, cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return cycle.OrganizationID, nil
}

// CreateRound appends a round at the next position in the cycle.
// Owner/Admin only.
func CreateRound(cycleID uint, name, description string, requesterID uint) (*models.RecruitmentRound, error) {
	orgID, err := OrganizationForCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if _, err := RequireRole(requesterID, orgID, true); err != nil {
		return nil, err
	}

	var round models.RecruitmentRound
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var maxPos int
		row := tx.Model(&models.RecruitmentRound{}).
			Where("recruitment_cycle_id = ?", cycleID).
			Select("COALESCE(MAX(position), 0)").
			Row()
		if err := row.Scan(&maxPos); err != nil {
			return err
		}

		round = models.RecruitmentRound{
			RecruitmentCycleID: cycleID,
			Name:               name,
			Description:        description,
			Position:           maxPos + 1,
		}
		return tx.Create(&round).Error
	})
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// ListRounds returns the cycle's rounds ordered by position, with IsLast
// filled in. Any member may read.
func ListRounds(cycleID, requesterID uint) ([]models.RecruitmentRound, error) {
	orgID, err := OrganizationForCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if _, err := ResolveRole(requesterID, orgID); err != nil {
		return nil, err
	}

	var rounds []models.RecruitmentRound
	if err := db.DB.Where("recruitment_cycle_id = ?", cycleID).
		Order("position ASC").
		Find(&rounds).Error; err != nil {
		return nil, err
	}
	if len(rounds) > 0 {
		rounds[len(rounds)-1].IsLast = true
	}
	return rounds, nil
}

// DeleteRound removes an empty round along with its delibs session and
// votes. A round that still has applicants is refused with a coded
// conflict describing its position in the cycle.
func DeleteRound(roundID, requesterID uint) error {
	orgID, err := OrganizationForRound(roundID)
	if err != nil {
		return err
	}
	if _, err := RequireRole(requesterID, orgID, true); err != nil {
		return err
	}

	var round models.RecruitmentRound
	if err := db.DB.First(&round, roundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var applicants int64
	if err := db.DB.Model(&models.ApplicantRound{}).
		Where("recruitment_round_id = ?", roundID).
		Count(&applicants).Error; err != nil {
		return err
	}
	if applicants > 0 {
		var siblings int64
		if err := db.DB.Model(&models.RecruitmentRound{}).
			Where("recruitment_cycle_id = ?", round.RecruitmentCycleID).
			Count(&siblings).Error; err != nil {
			return err
		}
		last, err := IsLastRound(roundID)
		if err != nil {
			return err
		}
		switch {
		case siblings == 1:
			return &RoundDeleteError{Code: CodeHasApplicantsOnlyRound}
		case !last:
			return &RoundDeleteError{Code: CodeHasApplicantsNotLastRound}
		default:
			return &RoundDeleteError{Code: CodeHasApplicantsLastRound}
		}
	}

	// Cascade by hand so the behavior does not depend on database-level
	// FK enforcement: votes, then session, then the round itself.
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var session models.DelibsSession
		err := tx.Where("recruitment_round_id = ?", roundID).First(&session).Error
		if err == nil {
			if err := tx.Where("delibs_session_id = ?", session.ID).
				Delete(&models.DelibsVote{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&session).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Delete(&round).Error
	})
}

// CreateApplicant registers an applicant in a cycle and materializes them
// into the cycle's first round as in_progress. Owner/Admin only.
func CreateApplicant(cycleID uint, name, email string, requesterID uint) (*models.Applicant, *models.ApplicantRound, error) {
	orgID, err := OrganizationForCycle(cycleID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := RequireRole(requesterID, orgID, true); err != nil {
		return nil, nil, err
	}

	var first models.RecruitmentRound
	err = db.DB.Where("recruitment_cycle_id = ?", cycleID).
		Order("position ASC").
		First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	applicant := models.Applicant{
		UID:                uuid.NewString(),
		RecruitmentCycleID: cycleID,
		Name:               name,
		Email:              email,
	}
	var ar models.ApplicantRound
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&applicant).Error; err != nil {
			return err
		}
		ar = models.ApplicantRound{
			ApplicantID:        applicant.ID,
			RecruitmentRoundID: first.ID,
			Status:             models.ApplicantStatusInProgress,
		}
		return tx.Create(&ar).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &applicant, &ar, nil
}

// ListRoundApplicants returns the applicant rounds in a round with their
// applicants preloaded. Any member may read.
func ListRoundApplicants(roundID, requesterID uint) ([]models.ApplicantRound, error) {
	orgID, err := OrganizationForRound(roundID)
	if err != nil {
		return nil, err
	}
	if _, err := ResolveRole(requesterID, orgID); err != nil {
		return nil, err
	}

	var rows []models.ApplicantRound
	err = db.DB.Preload("Applicant").
		Where("recruitment_round_id = ?", roundID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
