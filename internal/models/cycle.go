package models

import (
	"time"
)

// RecruitmentCycle is a hiring season/batch owned by an organization.
type RecruitmentCycle struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	OrganizationID uint         `gorm:"not null;index" json:"organization_id"`
	Organization   Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name           string       `gorm:"size:100;not null" json:"name"`
	Description    string       `gorm:"type:text" json:"description"`
	CreatedAt      time.Time    `json:"created_at"`
}
