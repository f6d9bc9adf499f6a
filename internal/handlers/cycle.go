package handlers

import (
	"net/http"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"
	"github.com/gupranay/recruitment-v11-sub000/internal/services"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

type CycleHandler struct{}

func NewCycleHandler() *CycleHandler {
	return &CycleHandler{}
}

type createCycleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createRoundRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCycle starts a new recruitment cycle. Owner/Admin only.
func (h *CycleHandler) CreateCycle(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	orgID := utils.StringToUint(c.Param("id"))

	if _, err := services.RequireRole(user.ID, orgID, true); err != nil {
		respondServiceError(c, err)
		return
	}

	var req createCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	cycle := models.RecruitmentCycle{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
	}
	if err := db.DB.Create(&cycle).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cycle": cycle})
}

// ListCycles lists the organization's cycles with rendered descriptions.
func (h *CycleHandler) ListCycles(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	orgID := utils.StringToUint(c.Param("id"))

	if _, err := services.ResolveRole(user.ID, orgID); err != nil {
		respondServiceError(c, err)
		return
	}

	var cycles []models.RecruitmentCycle
	if err := db.DB.Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&cycles).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(cycles))
	for _, cycle := range cycles {
		out = append(out, gin.H{
			"cycle":            cycle,
			"description_html": utils.RenderMarkdown(cycle.Description),
		})
	}

	c.JSON(http.StatusOK, gin.H{"cycles": out})
}

// CreateRound appends a round to a cycle. Owner/Admin only.
func (h *CycleHandler) CreateRound(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cycleID := utils.StringToUint(c.Param("id"))

	var req createRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	round, err := services.CreateRound(cycleID, req.Name, req.Description, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"round": round})
}

// ListRounds lists a cycle's rounds in order, flagging the last one.
func (h *CycleHandler) ListRounds(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cycleID := utils.StringToUint(c.Param("id"))

	rounds, err := services.ListRounds(cycleID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(rounds))
	for _, round := range rounds {
		out = append(out, gin.H{
			"round":            round,
			"description_html": utils.RenderMarkdown(round.Description),
		})
	}

	c.JSON(http.StatusOK, gin.H{"rounds": out})
}

// DeleteRound removes an empty round; rounds with applicants are refused
// with a coded conflict.
func (h *CycleHandler) DeleteRound(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	roundID := utils.StringToUint(c.Param("id"))

	if err := services.DeleteRound(roundID, user.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "round deleted"})
}
