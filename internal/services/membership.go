package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"gorm.io/gorm"
)

// ResolveRole returns the user's role within the organization, or
// ErrForbidden if they are not a member. Every privileged operation goes
// through this single gate instead of ad hoc role checks.
func ResolveRole(userID, organizationID uint) (string, error) {
	var member models.OrganizationMember
	err := db.DB.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	return member.Role, nil
}

// IsPrivileged reports whether the role may lock sessions, read aggregate
// results and record decisions.
func IsPrivileged(role string) bool {
	return role == models.RoleOwner || role == models.RoleAdmin
}

// RequireRole resolves the caller's role and additionally requires
// Owner/Admin when privileged is true.
func RequireRole(userID, organizationID uint, privileged bool) (string, error) {
	role, err := ResolveRole(userID, organizationID)
	if err != nil {
		return "", err
	}
	if privileged && !IsPrivileged(role) {
		return role, ErrForbidden
	}
	return role, nil
}

// OrganizationForRound walks round → cycle → organization. The mapping is
// immutable once the round exists, so it sits behind the LRU cache; roles
// and lock state never do.
func OrganizationForRound(roundID uint) (uint, error) {
	key := fmt.Sprintf("round:org:%d", roundID)
	if cached := utils.GetCache().Get(key); cached != nil {
		return cached.(uint), nil
	}

	var round models.RecruitmentRound
	if err := db.DB.Preload("RecruitmentCycle").First(&round, roundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	orgID := round.RecruitmentCycle.OrganizationID
	utils.GetCache().Set(key, orgID, 10*time.Minute)
	return orgID, nil
}

// OrganizationForSession resolves the organization owning the round behind
// a delibs session.
func OrganizationForSession(session *models.DelibsSession) (uint, error) {
	return OrganizationForRound(session.RecruitmentRoundID)
}

// CountMembers returns how many users belong to the organization, i.e. how
// many are eligible to vote in its delibs sessions.
func CountMembers(organizationID uint) (int64, error) {
	var count int64
	err := db.DB.Model(&models.OrganizationMember{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return count, err
}
