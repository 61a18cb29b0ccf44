// models/team.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultMaxMembers = 4

type Team struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description" gorm:"type:text"`
	OlympiadID  uint      `json:"olympiad_id" gorm:"not null;index"`
	Olympiad    *Olympiad `json:"olympiad,omitempty" gorm:"foreignKey:OlympiadID;constraint:OnDelete:RESTRICT"`

	// Soft-match metadata. Shown to candidates, never enforced.
	RequiredSkills    datatypes.JSONSlice[string] `json:"required_skills"`
	RequiredInterests datatypes.JSONSlice[string] `json:"required_interests"`
	RequiredLevel     string                      `json:"required_level" gorm:"size:100"`
	RequirementsNote  string                      `json:"requirements_note" gorm:"type:text"`

	MaxMembers int `json:"max_members" gorm:"not null;default:4"`
	// No column default: a false value must reach the INSERT.
	IsOpen    bool         `json:"is_open" gorm:"not null;index"`
	CreatorID uint         `json:"creator_id" gorm:"not null;index"`
	Creator   *User        `json:"creator,omitempty" gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT"`
	Members   []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`

	// Filled by the service layer from live row counts.
	MemberCount int64 `json:"member_count" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// IsFull reports whether count live members leave no free seat.
func (t *Team) IsFull(count int64) bool {
	return count >= int64(t.MaxMembers)
}
