// models/team_member.go
package models

import "time"

type TeamRole string

const (
	TeamRoleCreator TeamRole = "creator"
	TeamRoleMember  TeamRole = "member"
)

type TeamMember struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	TeamID   uint      `json:"team_id" gorm:"not null;uniqueIndex:idx_team_members_team_user"`
	Team     *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_team_members_team_user;index"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role     TeamRole  `json:"role" gorm:"not null;size:20;default:'member'"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
