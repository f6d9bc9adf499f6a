package services

import (
	"errors"
)

// Failure taxonomy shared by every service. Handlers map these to HTTP
// status codes at the boundary; services never touch HTTP themselves.
var (
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalidVoteValue = errors.New("invalid vote value")
	ErrInvalidAction    = errors.New("invalid action")
	ErrSessionLocked    = errors.New("session is locked")
	ErrRoundMismatch    = errors.New("applicant round belongs to a different recruitment round")
)

// Round deletion conflicts carry a machine-readable code so the dashboard
// can explain exactly why the round cannot go.
type RoundDeleteError struct {
	Code string
}

func (e *RoundDeleteError) Error() string {
	return "round cannot be deleted: " + e.Code
}

const (
	CodeHasApplicantsOnlyRound    = "HAS_APPLICANTS_ONLY_ROUND"
	CodeHasApplicantsNotLastRound = "HAS_APPLICANTS_NOT_LAST_ROUND"
	CodeHasApplicantsLastRound    = "HAS_APPLICANTS_LAST_ROUND"
)
