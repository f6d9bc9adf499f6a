package services

import (
	"errors"
	"math"
	"sort"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"

	"gorm.io/gorm"
)

// Averages closer than this are treated as equal when ranking.
const avgTolerance = 1e-9

// ApplicantResult is one row of a session's ranking. Derived, never
// persisted: recomputed from the live vote set on every call so it can
// never drift from the votes.
type ApplicantResult struct {
	ApplicantRoundID uint    `json:"applicant_round_id"`
	Name             string  `json:"name"`
	AvgVote          float64 `json:"avg_vote"`
	VoteCount        int     `json:"vote_count"`
	RankDense        int     `json:"rank_dense"`
	IsTied           bool    `json:"is_tied"`
}

// ComputeResults aggregates a session's votes per applicant. Owner/Admin
// only: members see their own vote and nothing else. Applicants without
// votes are included with VoteCount 0 and no rank, after all ranked rows.
func ComputeResults(sessionID, requesterID uint) ([]ApplicantResult, int64, error) {
	var session models.DelibsSession
	if err := db.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	orgID, err := OrganizationForSession(&session)
	if err != nil {
		return nil, 0, err
	}
	if _, err := RequireRole(requesterID, orgID, true); err != nil {
		return nil, 0, err
	}

	var applicantRounds []models.ApplicantRound
	if err := db.DB.Preload("Applicant").
		Where("recruitment_round_id = ?", session.RecruitmentRoundID).
		Find(&applicantRounds).Error; err != nil {
		return nil, 0, err
	}

	var votes []models.DelibsVote
	if err := db.DB.Where("delibs_session_id = ?", sessionID).Find(&votes).Error; err != nil {
		return nil, 0, err
	}

	totalMembers, err := CountMembers(orgID)
	if err != nil {
		return nil, 0, err
	}

	return rankApplicants(applicantRounds, votes), totalMembers, nil
}

// rankApplicants is the pure aggregation: average per applicant, dense
// rank over applicants with at least one vote, tie flags for shared
// averages.
func rankApplicants(applicantRounds []models.ApplicantRound, votes []models.DelibsVote) []ApplicantResult {
	sums := make(map[uint]int)
	counts := make(map[uint]int)
	for _, v := range votes {
		sums[v.ApplicantRoundID] += v.VoteValue
		counts[v.ApplicantRoundID]++
	}

	ranked := make([]ApplicantResult, 0, len(applicantRounds))
	unranked := make([]ApplicantResult, 0)
	for _, ar := range applicantRounds {
		r := ApplicantResult{
			ApplicantRoundID: ar.ID,
			Name:             ar.Applicant.Name,
		}
		if n := counts[ar.ID]; n > 0 {
			r.VoteCount = n
			r.AvgVote = float64(sums[ar.ID]) / float64(n)
			ranked = append(ranked, r)
		} else {
			unranked = append(unranked, r)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if math.Abs(ranked[i].AvgVote-ranked[j].AvgVote) > avgTolerance {
			return ranked[i].AvgVote > ranked[j].AvgVote
		}
		return ranked[i].ApplicantRoundID < ranked[j].ApplicantRoundID
	})

	// Dense rank: ties share a rank, the next distinct average gets rank+1.
	rank := 0
	for i := range ranked {
		if i == 0 || math.Abs(ranked[i].AvgVote-ranked[i-1].AvgVote) > avgTolerance {
			rank++
		}
		ranked[i].RankDense = rank
	}
	for i := range ranked {
		tied := (i > 0 && ranked[i].RankDense == ranked[i-1].RankDense) ||
			(i < len(ranked)-1 && ranked[i].RankDense == ranked[i+1].RankDense)
		ranked[i].IsTied = tied
	}

	sort.Slice(unranked, func(i, j int) bool {
		return unranked[i].ApplicantRoundID < unranked[j].ApplicantRoundID
	})

	return append(ranked, unranked...)
}
