// services/capacity.go - Team open/capacity gate shared by every join path
package services

import (
	"teammatch/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loadTeam fetches a team, mapping a missing row to ErrTeamNotFound.
// With lock set the row is held FOR UPDATE until tx ends, which serialises
// concurrent joins and approvals on the same team.
func loadTeam(tx *gorm.DB, teamID uint, lock bool) (*models.Team, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var team models.Team
	if err := q.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, errors.Wrapf(err, "loading team %d", teamID)
	}
	return &team, nil
}

// countMembers is the live member count; there is no stored counter.
func countMembers(tx *gorm.DB, teamID uint) (int64, error) {
	var count int64
	if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "counting members of team %d", teamID)
	}
	return count, nil
}

// checkTeamOpenAndCapacity is the one place the open and capacity rules live.
// Order: closed before full.
func checkTeamOpenAndCapacity(tx *gorm.DB, team *models.Team) error {
	if !team.IsOpen {
		return ErrTeamClosed
	}

	count, err := countMembers(tx, team.ID)
	if err != nil {
		return err
	}
	team.MemberCount = count

	if team.IsFull(count) {
		return errTeamFull(team.MaxMembers)
	}
	return nil
}

func isMember(tx *gorm.DB, userID, teamID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "checking membership")
	}
	return count > 0, nil
}

func userExists(tx *gorm.DB, userID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "checking user")
	}
	return count > 0, nil
}
