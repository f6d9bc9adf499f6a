package handlers

import (
	"net/http"

	"github.com/gupranay/recruitment-v11-sub000/internal/services"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

type DelibsHandler struct{}

func NewDelibsHandler() *DelibsHandler {
	return &DelibsHandler{}
}

type setStatusRequest struct {
	Action string `json:"action"` // "lock" or "unlock"
}

type castVoteRequest struct {
	ApplicantRoundID uint `json:"applicant_round_id"`
	VoteValue        int  `json:"vote_value"`
}

// GetOrCreate returns the round's delibs session, creating it on first
// access. Any organization member may open the delibs view.
func (h *DelibsHandler) GetOrCreate(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	roundID := utils.StringToUint(c.Param("id"))

	session, role, roundName, err := services.GetOrCreateSession(roundID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":    session,
		"user_role":  role,
		"round_name": roundName,
	})
}

// SetStatus locks or unlocks a session. Owner/Admin only.
func (h *DelibsHandler) SetStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID := utils.StringToUint(c.Param("id"))

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := services.SetSessionStatus(sessionID, req.Action, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// CastVote upserts the caller's vote. 201 on first cast, 200 on overwrite.
func (h *DelibsHandler) CastVote(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID := utils.StringToUint(c.Param("id"))

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ApplicantRoundID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "applicant_round_id is required"})
		return
	}

	vote, created, err := services.CastVote(sessionID, req.ApplicantRoundID, user.ID, req.VoteValue)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"vote": vote})
}

// ClearVote deletes the caller's vote; clearing a missing vote succeeds.
func (h *DelibsHandler) ClearVote(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID := utils.StringToUint(c.Param("id"))
	applicantRoundID := utils.StringToUint(c.Param("applicantRoundID"))

	if err := services.ClearVote(sessionID, applicantRoundID, user.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "vote cleared"})
}

// MyVote returns the caller's own vote, readable regardless of lock state.
func (h *DelibsHandler) MyVote(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID := utils.StringToUint(c.Param("id"))
	applicantRoundID := utils.StringToUint(c.Param("applicantRoundID"))

	vote, err := services.MyVote(sessionID, applicantRoundID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vote": vote})
}

// Results returns the session's ranking. Owner/Admin only: reviewers never
// see aggregates while deliberating.
func (h *DelibsHandler) Results(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID := utils.StringToUint(c.Param("id"))

	results, totalMembers, err := services.ComputeResults(sessionID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":       results,
		"total_members": totalMembers,
	})
}
