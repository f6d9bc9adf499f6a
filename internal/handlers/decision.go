package handlers

import (
	"net/http"

	"github.com/gupranay/recruitment-v11-sub000/internal/services"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

type DecisionHandler struct{}

func NewDecisionHandler() *DecisionHandler {
	return &DecisionHandler{}
}

type decisionRequest struct {
	Action string `json:"action"` // accept | reject | maybe | finalize
}

// Decide records an outcome for an applicant round. Owner/Admin only;
// works whether the round's delibs session is open, locked or absent.
func (h *DecisionHandler) Decide(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	applicantRoundID := utils.StringToUint(c.Param("id"))

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ar, err := services.Decide(applicantRoundID, req.Action, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applicant_round": ar,
		"action":          req.Action,
	})
}
