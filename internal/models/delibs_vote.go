package models

import (
	"time"
)

// Allowed delibs vote values: strong-no, no, neutral, yes, strong-yes.
var VoteValues = []int{-10, -5, 0, 5, 10}

// IsValidVoteValue reports whether v is on the five-point scale.
func IsValidVoteValue(v int) bool {
	for _, allowed := range VoteValues {
		if v == allowed {
			return true
		}
	}
	return false
}

// DelibsVote is one reviewer's vote on one applicant within a session.
// The unique index makes casting a vote an upsert, never a duplicate row.
type DelibsVote struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	DelibsSessionID  uint           `gorm:"not null;uniqueIndex:idx_delibs_vote" json:"delibs_session_id"`
	DelibsSession    DelibsSession  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ApplicantRoundID uint           `gorm:"not null;uniqueIndex:idx_delibs_vote;index" json:"applicant_round_id"`
	ApplicantRound   ApplicantRound `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VoterUserID      uint           `gorm:"not null;uniqueIndex:idx_delibs_vote;index" json:"voter_user_id"`
	VoteValue        int            `gorm:"not null" json:"vote_value"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
