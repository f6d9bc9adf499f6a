package models

import (
	"time"
)

// DelibsSession statuses. A locked session makes its vote set immutable for
// every role; lock/unlock is reversible.
const (
	SessionStatusOpen   = "open"
	SessionStatusLocked = "locked"
)

// DelibsSession is the voting window attached to a round, one per round.
// Created lazily on first access to the round's delibs view.
type DelibsSession struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	RecruitmentRoundID uint             `gorm:"uniqueIndex;not null" json:"recruitment_round_id"`
	RecruitmentRound   RecruitmentRound `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedBy          uint             `gorm:"not null" json:"created_by"`
	Status             string           `gorm:"size:10;not null;default:'open'" json:"status"`
	LockedAt           *time.Time       `json:"locked_at"`
	CreatedAt          time.Time        `json:"created_at"`
}
