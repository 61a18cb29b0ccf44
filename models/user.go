// models/user.go
package models

import (
	"time"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null;size:100" json:"name"`
	Email string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	// Stored as given. See DESIGN.md before changing this contract.
	Password string `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Profile      *Profile      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Memberships  []TeamMember  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
	JoinRequests []JoinRequest `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"join_requests,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the applicant card shown to team leaders.
type UserSummary struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	HasProfile bool    `json:"has_profile"`
	Role       *string `json:"role,omitempty"`
}

func (u *User) Summary() UserSummary {
	s := UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, HasProfile: u.Profile != nil}
	if u.Profile != nil {
		role := u.Profile.Role.String()
		s.Role = &role
	}
	return s
}
