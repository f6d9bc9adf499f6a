package services

import (
	"errors"
	"math"
	"testing"
)

func castOrFail(t *testing.T, sessionID, arID, voterID uint, value int) {
	t.Helper()
	if _, _, err := CastVote(sessionID, arID, voterID, value); err != nil {
		t.Fatalf("CastVote(%d, %d, %d, %d) failed: %v", sessionID, arID, voterID, value, err)
	}
}

func TestResultsMemberForbidden(t *testing.T) {
	setupTestDB(t)
	f := seedFixture(t, 1)
	session := openSession(t, f, f.Voter1.ID)

	if _, _, err := ComputeResults(session.ID, f.Voter1.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("members must not see aggregate results, got %v", err)
	}
	if _, _, err := ComputeResults(session.ID, f.Admin.ID); err != nil {
		t.Errorf("admin should see results, got %v", err)
	}
}

func TestDenseRankingWithTies(t *testing.T) {
	setupTestDB(t)
	f := seedFixture(t, 5)
	session := openSession(t, f, f.Owner.ID)

	// Single vote each → averages [10, 10, 5, 5, 0]
	values := []int{10, 10, 5, 5, 0}
	for i, v := range values {
		castOrFail(t, session.ID, f.ApplicantRounds[i].ID, f.Voter1.ID, v)
	}

	results, _, err := ComputeResults(session.ID, f.Owner.ID)
	if err != nil {
		t.Fatalf("ComputeResults failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	wantRanks := []int{1, 1, 2, 2, 3}
	wantTied := []bool{true, true, true, true, false}
	for i, r := range results {
		if r.RankDense != wantRanks[i] {
			t.Errorf("result %d: expected dense rank %d, got %d", i, wantRanks[i], r.RankDense)
		}
		if r.IsTied != wantTied[i] {
			t.Errorf("result %d: expected is_tied=%v", i, wantTied[i])
		}
	}
}

func TestUnvotedApplicantsNotRanked(t *testing.T) {
	setupTestDB(t)
	f := seedFixture(t, 3)
	session := openSession(t, f, f.Owner.ID)

	castOrFail(t, session.ID, f.ApplicantRounds[0].ID, f.Voter1.ID, 10)
	castOrFail(t, session.ID, f.ApplicantRounds[1].ID, f.Voter1.ID, 5)
	// ApplicantRounds[2] gets no votes

	results, _, err := ComputeResults(session.ID, f.Owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("zero-vote applicants must still appear, got %d results", len(results))
	}

	last := results[2]
	if last.ApplicantRoundID != f.ApplicantRounds[2].ID {
		t.Errorf("unvoted applicant should sort after ranked ones")
	}
	if last.VoteCount != 0 || last.RankDense != 0 {
		t.Errorf("unvoted applicant: want count 0 and no rank, got count %d rank %d", last.VoteCount, last.RankDense)
	}
	// Ranks of voted applicants are unperturbed
	if results[0].RankDense != 1 || results[1].RankDense != 2 {
		t.Errorf("voted ranks perturbed: %d, %d", results[0].RankDense, results[1].RankDense)
	}
}

func TestTotalMembers(t *testing.T) {
	setupTestDB(t)
	f := seedFixture(t, 1)
	session := openSession(t, f, f.Owner.ID)

	_, total, err := ComputeResults(session.ID, f.Owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Errorf("expected 4 eligible members, got %d", total)
	}
}

// Two applicants, two voters, then a lock: the full deliberation flow.
func TestDeliberationEndToEnd(t *testing.T) {
	setupTestDB(t)
	f := seedFixture(t, 2)
	session := openSession(t, f, f.Voter1.ID)
	a, b := f.ApplicantRounds[0].ID, f.ApplicantRounds[1].ID

	castOrFail(t, session.ID, a, f.Voter1.ID, 10)
	castOrFail(t, session.ID, b, f.Voter1.ID, -5)
	castOrFail(t, session.ID, a, f.Voter2.ID, 5)
	castOrFail(t, session.ID, b, f.Voter2.ID, -5)

	results, _, err := ComputeResults(session.ID, f.Owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first, second := results[0], results[1]
	if first.ApplicantRoundID != a || math.Abs(first.AvgVote-7.5) > 1e-9 || first.VoteCount != 2 || first.RankDense != 1 {
		t.Errorf("applicant A: want avg 7.5, count 2, rank 1; got %+v", first)
	}
	if second.ApplicantRoundID != b || math.Abs(second.AvgVote-(-5)) > 1e-9 || second.VoteCount != 2 || second.RankDense != 2 {
		t.Errorf("applicant B: want avg -5, count 2, rank 2; got %+v", second)
	}
	if first.IsTied || second.IsTied {
		t.Errorf("neither applicant should be tied")
	}

	if _, err := SetSessionStatus(session.ID, ActionLock, f.Owner.ID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := CastVote(session.ID, a, f.Voter1.ID, 0); !errors.Is(err, ErrSessionLocked) {
		t.Errorf("cast after lock: expected ErrSessionLocked, got %v", err)
	}

	// Results are unchanged by the lock
	again, _, err := ComputeResults(session.ID, f.Owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 || again[0].AvgVote != first.AvgVote || again[1].AvgVote != second.AvgVote {
		t.Errorf("results changed after lock")
	}
}
