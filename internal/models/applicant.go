package models

import (
	"time"
)

// ApplicantRound statuses.
const (
	ApplicantStatusInProgress = "in_progress"
	ApplicantStatusAccepted   = "accepted"
	ApplicantStatusRejected   = "rejected"
	ApplicantStatusMaybe      = "maybe"
)

type Applicant struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	UID                string           `gorm:"uniqueIndex;size:36;not null" json:"uid"`
	RecruitmentCycleID uint             `gorm:"not null;index" json:"recruitment_cycle_id"`
	RecruitmentCycle   RecruitmentCycle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name               string           `gorm:"size:100;not null" json:"name"`
	Email              string           `gorm:"size:100" json:"email"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ApplicantRound records one applicant's status within one specific round.
type ApplicantRound struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	ApplicantID        uint             `gorm:"not null;uniqueIndex:idx_applicant_round" json:"applicant_id"`
	Applicant          Applicant        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"applicant"`
	RecruitmentRoundID uint             `gorm:"not null;uniqueIndex:idx_applicant_round;index" json:"recruitment_round_id"`
	RecruitmentRound   RecruitmentRound `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Status             string           `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}
