// services/audit.go - Consistency sweep over teams, members and requests
package services

import (
	"fmt"

	"teammatch/models"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Violation struct {
	Kind   string `json:"kind"`
	TeamID uint   `json:"team_id"`
	UserID uint   `json:"user_id,omitempty"`
	Detail string `json:"detail"`
}

const (
	ViolationOverCapacity     = "over_capacity"
	ViolationCreatorMissing   = "creator_missing"
	ViolationExtraCreator     = "extra_creator"
	ViolationDuplicatePending = "duplicate_pending"
)

// AuditInvariants reports rows that break the membership rules. It only
// reads; fixing is left to an operator.
func AuditInvariants(db *gorm.DB) ([]Violation, error) {
	var out []Violation

	var over []struct {
		ID         uint
		MaxMembers int
		Count      int64
	}
	err := db.Table("teams").
		Select("teams.id, teams.max_members, COUNT(team_members.id) AS count").
		Joins("LEFT JOIN team_members ON team_members.team_id = teams.id").
		Group("teams.id, teams.max_members").
		Having("COUNT(team_members.id) > teams.max_members").
		Order("teams.id").
		Scan(&over).Error
	if err != nil {
		return nil, errors.Wrap(err, "auditing capacity")
	}
	for _, t := range over {
		out = append(out, Violation{
			Kind:   ViolationOverCapacity,
			TeamID: t.ID,
			Detail: fmt.Sprintf("%d members, max %d", t.Count, t.MaxMembers),
		})
	}

	var missing []struct {
		ID        uint
		CreatorID uint
	}
	err = db.Table("teams").
		Select("teams.id, teams.creator_id").
		Joins("LEFT JOIN team_members ON team_members.team_id = teams.id AND team_members.user_id = teams.creator_id AND team_members.role = ?", models.TeamRoleCreator).
		Where("team_members.id IS NULL").
		Order("teams.id").
		Scan(&missing).Error
	if err != nil {
		return nil, errors.Wrap(err, "auditing creator rows")
	}
	for _, t := range missing {
		out = append(out, Violation{
			Kind:   ViolationCreatorMissing,
			TeamID: t.ID,
			UserID: t.CreatorID,
			Detail: "creator has no creator membership",
		})
	}

	var extra []struct {
		TeamID uint
		UserID uint
	}
	err = db.Table("team_members").
		Select("team_members.team_id, team_members.user_id").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.role = ? AND team_members.user_id <> teams.creator_id", models.TeamRoleCreator).
		Order("team_members.team_id, team_members.user_id").
		Scan(&extra).Error
	if err != nil {
		return nil, errors.Wrap(err, "auditing extra creators")
	}
	for _, m := range extra {
		out = append(out, Violation{
			Kind:   ViolationExtraCreator,
			TeamID: m.TeamID,
			UserID: m.UserID,
			Detail: "member holds creator role but is not the team creator",
		})
	}

	var dup []struct {
		TeamID uint
		UserID uint
		Count  int64
	}
	err = db.Model(&models.JoinRequest{}).
		Select("team_id, user_id, COUNT(*) AS count").
		Where("status = ?", models.JoinRequestPending).
		Group("team_id, user_id").
		Having("COUNT(*) > 1").
		Order("team_id, user_id").
		Scan(&dup).Error
	if err != nil {
		return nil, errors.Wrap(err, "auditing pending requests")
	}
	for _, d := range dup {
		out = append(out, Violation{
			Kind:   ViolationDuplicatePending,
			TeamID: d.TeamID,
			UserID: d.UserID,
			Detail: "more than one pending request",
		})
	}

	if len(out) > 0 {
		log.WithField("violations", len(out)).Warn("invariant audit found problems")
	}
	return out, nil
}
