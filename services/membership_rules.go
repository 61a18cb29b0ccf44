// services/membership_rules.go - Who may ask to join a team
package services

import (
	"teammatch/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// validateJoinRequest runs the submission checks in their fixed order and
// stops at the first failure. The order decides which message the candidate
// sees, so do not reorder.
//
//  1. team exists          TEAM_NOT_FOUND
//  2. team is open         TEAM_CLOSED
//  3. team has a free seat TEAM_FULL
//  4. user exists          USER_NOT_FOUND
//  5. user has a profile   PROFILE_REQUIRED
//  6. not yet a member     ALREADY_MEMBER
//  7. no pending request   DUPLICATE_REQUEST
func validateJoinRequest(tx *gorm.DB, userID, teamID uint) (*models.Team, error) {
	team, err := loadTeam(tx, teamID, false)
	if err != nil {
		return nil, err
	}

	if err := checkTeamOpenAndCapacity(tx, team); err != nil {
		return nil, err
	}

	exists, err := userExists(tx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	hasProfile, err := hasProfile(tx, userID)
	if err != nil {
		return nil, err
	}
	if !hasProfile {
		return nil, ErrProfileRequired
	}

	member, err := isMember(tx, userID, teamID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyMember
	}

	pending, err := hasPendingRequest(tx, userID, teamID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	return team, nil
}

func hasProfile(tx *gorm.DB, userID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Profile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "checking profile")
	}
	return count > 0, nil
}

func hasPendingRequest(tx *gorm.DB, userID, teamID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.JoinRequest{}).
		Where("user_id = ? AND team_id = ? AND status = ?", userID, teamID, models.JoinRequestPending).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "checking pending requests")
	}
	return count > 0, nil
}
