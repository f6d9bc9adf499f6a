package services

import (
	"errors"
	"fmt"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Decision actions. Finalize persists the same status as accept but is
// reported distinctly so consumers can tell admission from promotion.
const (
	DecisionAccept   = "accept"
	DecisionReject   = "reject"
	DecisionMaybe    = "maybe"
	DecisionFinalize = "finalize"
)

var decisionStatus = map[string]string{
	DecisionAccept:   models.ApplicantStatusAccepted,
	DecisionFinalize: models.ApplicantStatusAccepted,
	DecisionReject:   models.ApplicantStatusRejected,
	DecisionMaybe:    models.ApplicantStatusMaybe,
}

var decisionAudit = map[string]string{
	DecisionAccept:   models.AuditDecisionAccept,
	DecisionFinalize: models.AuditDecisionFinal,
	DecisionReject:   models.AuditDecisionReject,
	DecisionMaybe:    models.AuditDecisionMaybe,
}

// Decide applies an accept/reject/maybe/finalize outcome to an applicant
// round. Owner/Admin only. Independent of any delibs session or lock
// state. Idempotent at the status level: repeating an action that already
// holds succeeds without side effects. Accepting on a non-last round also
// materializes the applicant into the next round.
func Decide(applicantRoundID uint, action string, requesterID uint) (*models.ApplicantRound, error) {
	target, ok := decisionStatus[action]
	if !ok {
		return nil, ErrInvalidAction
	}

	var ar models.ApplicantRound
	if err := db.DB.Preload("Applicant").First(&ar, applicantRoundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	orgID, err := OrganizationForRound(ar.RecruitmentRoundID)
	if err != nil {
		return nil, err
	}
	if _, err := RequireRole(requesterID, orgID, true); err != nil {
		return nil, err
	}

	if ar.Status == target {
		return &ar, nil
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ar).Update("status", target).Error; err != nil {
			return err
		}

		if action == DecisionAccept {
			next, err := nextRound(tx, ar.RecruitmentRoundID)
			if err != nil {
				return err
			}
			if next != nil {
				// The (applicant, round) unique index keeps a repeated
				// accept from materializing the applicant twice.
				promoted := models.ApplicantRound{
					ApplicantID:        ar.ApplicantID,
					RecruitmentRoundID: next.ID,
					Status:             models.ApplicantStatusInProgress,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns: []clause.Column{
						{Name: "applicant_id"},
						{Name: "recruitment_round_id"},
					},
					DoNothing: true,
				}).Create(&promoted).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	GetAuditService().Record(orgID, requesterID, decisionAudit[action],
		fmt.Sprintf("applicant_round:%d", ar.ID))

	ar.Status = target
	return &ar, nil
}

// nextRound returns the round after the given one in its cycle, or nil if
// it is the last.
func nextRound(tx *gorm.DB, roundID uint) (*models.RecruitmentRound, error) {
	var current models.RecruitmentRound
	if err := tx.First(&current, roundID).Error; err != nil {
		return nil, err
	}

	var next models.RecruitmentRound
	err := tx.Where("recruitment_cycle_id = ? AND position > ?", current.RecruitmentCycleID, current.Position).
		Order("position ASC").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// IsLastRound reports whether no later round exists in the round's cycle.
func IsLastRound(roundID uint) (bool, error) {
	next, err := nextRound(db.DB, roundID)
	if err != nil {
		return false, err
	}
	return next == nil, nil
}
