package handlers

import (
	"net/http"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"
	"github.com/gupranay/recruitment-v11-sub000/internal/services"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrganizationHandler struct{}

func NewOrganizationHandler() *OrganizationHandler {
	return &OrganizationHandler{}
}

type createOrgRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

// Create makes a new organization; the creator becomes its owner in the
// same transaction.
func (h *OrganizationHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req createOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	org := models.Organization{
		Name:        req.Name,
		Description: req.Description,
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		owner := models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         user.ID,
			Role:           models.RoleOwner,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"organization": org})
}

// AddMember adds a user to the organization. Owner only.
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	orgID := utils.StringToUint(c.Param("id"))

	role, err := services.ResolveRole(user.ID, orgID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if role != models.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	if req.Role != models.RoleOwner && req.Role != models.RoleAdmin && req.Role != models.RoleMember {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	member := models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         req.UserID,
		Role:           req.Role,
	}
	if err := db.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user is already a member"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// ListMembers returns the organization's members. Any member may read.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	orgID := utils.StringToUint(c.Param("id"))

	if _, err := services.ResolveRole(user.ID, orgID); err != nil {
		respondServiceError(c, err)
		return
	}

	var members []models.OrganizationMember
	if err := db.DB.Preload("User").
		Where("organization_id = ?", orgID).
		Order("id ASC").
		Find(&members).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}
