package handlers

import (
	"net/http"

	"github.com/gupranay/recruitment-v11-sub000/internal/services"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

type ApplicantHandler struct{}

func NewApplicantHandler() *ApplicantHandler {
	return &ApplicantHandler{}
}

type createApplicantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Create registers an applicant in a cycle and places them in its first
// round. Owner/Admin only.
func (h *ApplicantHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cycleID := utils.StringToUint(c.Param("id"))

	var req createApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	applicant, ar, err := services.CreateApplicant(cycleID, req.Name, req.Email, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"applicant": applicant, "applicant_round": ar})
}

// ListForRound returns the round's applicant rounds with statuses.
func (h *ApplicantHandler) ListForRound(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	roundID := utils.StringToUint(c.Param("id"))

	rows, err := services.ListRoundApplicants(roundID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applicant_rounds": rows})
}
