package models

import (
	"time"
)

// RecruitmentRound is an ordered stage within a cycle. Position is 1-based
// and unique per cycle; the round with the highest position is the last one.
type RecruitmentRound struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	RecruitmentCycleID uint             `gorm:"not null;uniqueIndex:idx_cycle_position;index" json:"recruitment_cycle_id"`
	RecruitmentCycle   RecruitmentCycle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name               string           `gorm:"size:100;not null" json:"name"`
	Description        string           `gorm:"type:text" json:"description"`
	Position           int              `gorm:"not null;uniqueIndex:idx_cycle_position" json:"position"`
	CreatedAt          time.Time        `json:"created_at"`

	// 非数据库字段，查询时填充
	IsLast bool `gorm:"-" json:"is_last"`
}
