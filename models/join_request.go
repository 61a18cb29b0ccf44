// models/join_request.go
package models

import "time"

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "PENDING"
	JoinRequestApproved JoinRequestStatus = "APPROVED"
	JoinRequestRejected JoinRequestStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed.
func (s JoinRequestStatus) IsTerminal() bool {
	return s == JoinRequestApproved || s == JoinRequestRejected
}

// JoinRequest is a candidate's application to a team. At most one PENDING row
// per (user, team) is allowed; decided rows are kept as history.
type JoinRequest struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	UserID    uint              `json:"user_id" gorm:"not null;index"`
	User      *User             `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TeamID    uint              `json:"team_id" gorm:"not null;index"`
	Team      *Team             `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Status    JoinRequestStatus `json:"status" gorm:"not null;size:20;default:'PENDING';index"`
	Message   *string           `json:"message,omitempty" gorm:"type:text"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (JoinRequest) TableName() string {
	return "join_requests"
}
