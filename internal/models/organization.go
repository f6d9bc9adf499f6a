package models

import (
	"time"
)

// Organization roles. Owner and Admin are privileged; Member may only read
// and cast their own delibs votes.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Organization struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrganizationMember struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	OrganizationID uint         `gorm:"not null;uniqueIndex:idx_org_member" json:"organization_id"`
	Organization   Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID         uint         `gorm:"not null;uniqueIndex:idx_org_member;index" json:"user_id"`
	User           User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Role           string       `gorm:"size:20;not null;default:'member'" json:"role"`
	CreatedAt      time.Time    `json:"created_at"`
}
