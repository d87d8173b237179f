package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Offering is a bookable service. Price is in minor currency units.
// A nil XPValue means completions grant the configured default XP.
type Offering struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID      `json:"organization_id" gorm:"column:org_id;not null;index:ix_offerings_org"`
	Name            string            `json:"name" gorm:"not null"`
	Description     *string           `json:"description,omitempty"`
	Price           int64             `json:"price" gorm:"not null"`
	DurationMinutes int               `json:"duration_minutes" gorm:"not null"`
	XPValue         *int              `json:"xp_value,omitempty" gorm:"column:xp_value"`
	Active          bool              `json:"active" gorm:"not null;default:true"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null"`
}

func (Offering) TableName() string { return "offerings" }

// Duration is how long a booking of this offering lasts.
func (o Offering) Duration() time.Duration {
	return time.Duration(o.DurationMinutes) * time.Minute
}

// XPFor returns the XP a completed booking earns, falling back to def.
func (o Offering) XPFor(def int) int {
	if o.XPValue != nil && *o.XPValue > 0 {
		return *o.XPValue
	}
	return def
}
