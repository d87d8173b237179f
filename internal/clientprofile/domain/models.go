package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ClientProfile is a tenant's end customer and their loyalty progression.
// TotalSpent is in minor currency units. Version increments on every
// progression write and guards against lost updates.
type ClientProfile struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID        snowflake.ID `gorm:"not null;uniqueIndex:ux_client_profiles_org_email,priority:1" json:"organization_id"`
	Email        string       `gorm:"not null;size:191;uniqueIndex:ux_client_profiles_org_email,priority:2" json:"email"`
	Name         string       `gorm:"not null" json:"name"`
	Phone        string       `json:"phone,omitempty"`
	TotalXP      int          `gorm:"column:total_xp;not null" json:"total_xp"`
	CurrentLevel int          `gorm:"not null" json:"current_level"`
	LevelName    string       `gorm:"not null" json:"level_name"`
	TotalVisits  int          `gorm:"not null" json:"total_visits"`
	TotalSpent   int64        `gorm:"not null" json:"total_spent"`
	LastVisit    *time.Time   `json:"last_visit,omitempty"`
	Version      int64        `gorm:"not null" json:"version"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

func (ClientProfile) TableName() string { return "client_profiles" }

// Progress is the set of fields a completed booking rewrites.
type Progress struct {
	TotalXP      int
	CurrentLevel int
	LevelName    string
	TotalVisits  int
	TotalSpent   int64
	LastVisit    time.Time
}
