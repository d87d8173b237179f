// Package domain contains persistence models for tenants.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Organization represents a tenant: one independent business.
type Organization struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"not null" json:"name"`
	Slug         string            `gorm:"not null;size:191;uniqueIndex:ux_organizations_slug" json:"slug"`
	SupportEmail string            `gorm:"column:support_email" json:"support_email,omitempty"`
	TimezoneName string            `gorm:"column:timezone_name" json:"timezone_name,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"not null" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
