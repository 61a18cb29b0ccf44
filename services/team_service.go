// services/team_service.go - Team lifecycle and direct membership
package services

import (
	"strings"
	"time"

	"teammatch/models"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// CreateTeamInput carries the fields a creator chooses. Zero MaxMembers means
// the default size.
type CreateTeamInput struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	OlympiadID        uint     `json:"olympiad_id"`
	RequiredSkills    []string `json:"required_skills"`
	RequiredInterests []string `json:"required_interests"`
	RequiredLevel     string   `json:"required_level"`
	RequirementsNote  string   `json:"requirements_note"`
	MaxMembers        int      `json:"max_members"`
	IsOpen            *bool    `json:"is_open"`
}

// UpdateTeamInput only touches the fields that are set.
type UpdateTeamInput struct {
	Name              *string   `json:"name"`
	Description       *string   `json:"description"`
	RequiredSkills    *[]string `json:"required_skills"`
	RequiredInterests *[]string `json:"required_interests"`
	RequiredLevel     *string   `json:"required_level"`
	RequirementsNote  *string   `json:"requirements_note"`
	MaxMembers        *int      `json:"max_members"`
	IsOpen            *bool     `json:"is_open"`
}

// ================== TEAM CRUD OPERATIONS ==================

// CreateTeam creates a team and its creator membership in one transaction.
func (s *TeamService) CreateTeam(creatorID uint, in CreateTeamInput) (*models.Team, error) {
	name, err := teamName(in.Name)
	if err != nil {
		return nil, err
	}
	requiredLevel := strings.TrimSpace(in.RequiredLevel)
	if err := checkLength("Required level", requiredLevel, maxRequiredLevelLength); err != nil {
		return nil, err
	}

	maxMembers := in.MaxMembers
	if maxMembers == 0 {
		maxMembers = models.DefaultMaxMembers
	}
	if maxMembers < 1 {
		return nil, Invalid("Max members must be at least 1")
	}

	isOpen := true
	if in.IsOpen != nil {
		isOpen = *in.IsOpen
	}

	team := &models.Team{
		Name:              name,
		Description:       strings.TrimSpace(in.Description),
		OlympiadID:        in.OlympiadID,
		RequiredSkills:    models.NormalizeTags(in.RequiredSkills),
		RequiredInterests: models.NormalizeTags(in.RequiredInterests),
		RequiredLevel:     requiredLevel,
		RequirementsNote:  strings.TrimSpace(in.RequirementsNote),
		MaxMembers:        maxMembers,
		IsOpen:            isOpen,
		CreatorID:         creatorID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := userExists(tx, creatorID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		var olympiads int64
		if err := tx.Model(&models.Olympiad{}).Where("id = ?", in.OlympiadID).Count(&olympiads).Error; err != nil {
			return errors.Wrap(err, "checking olympiad")
		}
		if olympiads == 0 {
			return ErrOlympiadNotFound
		}

		if err := tx.Create(team).Error; err != nil {
			return errors.Wrap(err, "creating team")
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   creatorID,
			Role:     models.TeamRoleCreator,
			JoinedAt: time.Now().UTC(),
		}
		if err := tx.Create(member).Error; err != nil {
			return errors.Wrap(err, "adding creator membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	team.MemberCount = 1

	log.WithFields(log.Fields{
		"team_id":     team.ID,
		"creator_id":  creatorID,
		"olympiad_id": team.OlympiadID,
		"max_members": team.MaxMembers,
	}).Info("team created")

	return team, nil
}

// GetTeamByID retrieves a team with its olympiad, creator and live member count.
func (s *TeamService) GetTeamByID(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Olympiad").Preload("Creator").First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, errors.Wrapf(err, "loading team %d", teamID)
	}

	count, err := countMembers(s.db, team.ID)
	if err != nil {
		return nil, err
	}
	team.MemberCount = count
	return &team, nil
}

// GetUserTeams retrieves all teams a user is a member of
func (s *TeamService) GetUserTeams(userID uint) ([]models.Team, error) {
	var teams []models.Team

	err := s.db.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Preload("Olympiad").
		Order("teams.created_at DESC, teams.id DESC").
		Find(&teams).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing user teams")
	}

	return teams, s.fillMemberCounts(teams)
}

// ListOlympiadTeams lists the teams of an olympiad, newest first.
func (s *TeamService) ListOlympiadTeams(olympiadID uint, openOnly bool) ([]models.Team, error) {
	var teams []models.Team

	query := s.db.Where("olympiad_id = ?", olympiadID)
	if openOnly {
		query = query.Where("is_open = ?", true)
	}

	if err := query.Order("created_at DESC, id DESC").Find(&teams).Error; err != nil {
		return nil, errors.Wrap(err, "listing olympiad teams")
	}

	return teams, s.fillMemberCounts(teams)
}

// UpdateTeam changes team settings (creator only). Shrinking below the
// current member count is refused.
func (s *TeamService) UpdateTeam(teamID, actorID uint, in UpdateTeamInput) (*models.Team, error) {
	var team *models.Team

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		team, err = loadTeam(tx, teamID, true)
		if err != nil {
			return err
		}
		if team.CreatorID != actorID {
			return ErrForbidden
		}

		updates := map[string]interface{}{}

		if in.Name != nil {
			name, err := teamName(*in.Name)
			if err != nil {
				return err
			}
			updates["name"] = name
		}
		if in.Description != nil {
			updates["description"] = strings.TrimSpace(*in.Description)
		}
		if in.RequiredSkills != nil {
			updates["required_skills"] = datatypes.JSONSlice[string](models.NormalizeTags(*in.RequiredSkills))
		}
		if in.RequiredInterests != nil {
			updates["required_interests"] = datatypes.JSONSlice[string](models.NormalizeTags(*in.RequiredInterests))
		}
		if in.RequiredLevel != nil {
			level := strings.TrimSpace(*in.RequiredLevel)
			if err := checkLength("Required level", level, maxRequiredLevelLength); err != nil {
				return err
			}
			updates["required_level"] = level
		}
		if in.RequirementsNote != nil {
			updates["requirements_note"] = strings.TrimSpace(*in.RequirementsNote)
		}
		if in.MaxMembers != nil {
			if *in.MaxMembers < 1 {
				return Invalid("Max members must be at least 1")
			}
			count, err := countMembers(tx, teamID)
			if err != nil {
				return err
			}
			if int64(*in.MaxMembers) < count {
				return ErrCapacityBelowMembers
			}
			updates["max_members"] = *in.MaxMembers
		}
		if in.IsOpen != nil {
			updates["is_open"] = *in.IsOpen
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Team{}).Where("id = ?", teamID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "updating team")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"team_id": teamID, "actor_id": actorID}).Info("team updated")

	return s.GetTeamByID(team.ID)
}

// DeleteTeam removes a team with its memberships and join requests (creator only).
func (s *TeamService) DeleteTeam(teamID, actorID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		team, err := loadTeam(tx, teamID, true)
		if err != nil {
			return err
		}
		if team.CreatorID != actorID {
			return ErrForbidden
		}

		if err := tx.Where("team_id = ?", teamID).Delete(&models.JoinRequest{}).Error; err != nil {
			return errors.Wrap(err, "deleting join requests")
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return errors.Wrap(err, "deleting members")
		}
		if err := tx.Delete(&models.Team{}, teamID).Error; err != nil {
			return errors.Wrap(err, "deleting team")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"team_id": teamID, "actor_id": actorID}).Info("team deleted")
	return nil
}

// ================== TEAM MEMBERSHIP OPERATIONS ==================

// JoinTeam adds userID to an open team without the approval flow. It goes
// through the same capacity gate as approvals, under the team row lock.
func (s *TeamService) JoinTeam(userID, teamID uint) (*models.TeamMember, error) {
	var member *models.TeamMember

	err := s.db.Transaction(func(tx *gorm.DB) error {
		team, err := loadTeam(tx, teamID, true)
		if err != nil {
			return err
		}

		if err := checkTeamOpenAndCapacity(tx, team); err != nil {
			return err
		}

		exists, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		already, err := isMember(tx, userID, teamID)
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyMember
		}

		member = &models.TeamMember{
			TeamID:   teamID,
			UserID:   userID,
			Role:     models.TeamRoleMember,
			JoinedAt: time.Now().UTC(),
		}
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return errors.Wrap(err, "adding member")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"team_id": teamID, "user_id": userID}).Info("member joined")
	return member, nil
}

// LeaveTeam removes userID's membership. The creator cannot leave.
func (s *TeamService) LeaveTeam(userID, teamID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := loadTeam(tx, teamID, true); err != nil {
			return err
		}

		member, err := findMember(tx, teamID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrNotMember
		}
		if member.Role == models.TeamRoleCreator {
			return ErrCreatorCannotLeave
		}

		return errors.Wrap(tx.Delete(member).Error, "removing membership")
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"team_id": teamID, "user_id": userID}).Info("member left")
	return nil
}

// RemoveMember removes a member from team (creator only)
func (s *TeamService) RemoveMember(teamID, actorID, memberID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		team, err := loadTeam(tx, teamID, true)
		if err != nil {
			return err
		}
		if team.CreatorID != actorID {
			return ErrForbidden
		}

		target, err := findMember(tx, teamID, memberID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrNotMember
		}
		if target.Role == models.TeamRoleCreator {
			return ErrCannotRemoveCreator
		}

		return errors.Wrap(tx.Delete(target).Error, "removing member")
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"team_id":   teamID,
		"actor_id":  actorID,
		"member_id": memberID,
	}).Info("member removed")
	return nil
}

// TransferOwnership hands the creator role to another member. The old
// creator is demoted before the new one is promoted so the single-creator
// index never sees two creators.
func (s *TeamService) TransferOwnership(teamID, currentCreatorID, newCreatorID uint) error {
	if currentCreatorID == newCreatorID {
		return Invalid("You already own this team")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		team, err := loadTeam(tx, teamID, true)
		if err != nil {
			return err
		}
		if team.CreatorID != currentCreatorID {
			return ErrForbidden
		}

		target, err := findMember(tx, teamID, newCreatorID)
		if err != nil {
			return err
		}
		if target == nil {
			return Invalid("New owner must be a team member")
		}

		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, currentCreatorID).
			Update("role", models.TeamRoleMember).Error; err != nil {
			return errors.Wrap(err, "demoting creator")
		}

		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, newCreatorID).
			Update("role", models.TeamRoleCreator).Error; err != nil {
			return errors.Wrap(err, "promoting new creator")
		}

		return errors.Wrap(tx.Model(&models.Team{}).
			Where("id = ?", teamID).
			Update("creator_id", newCreatorID).Error, "updating team creator")
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"team_id":     teamID,
		"old_creator": currentCreatorID,
		"new_creator": newCreatorID,
	}).Info("team ownership transferred")
	return nil
}

// GetTeamMembers returns all members of a team, creator first.
func (s *TeamService) GetTeamMembers(teamID uint) ([]models.TeamMember, error) {
	if _, err := loadTeam(s.db, teamID, false); err != nil {
		return nil, err
	}

	var members []models.TeamMember
	err := s.db.Where("team_id = ?", teamID).
		Preload("User").
		Order("CASE WHEN role = 'creator' THEN 0 ELSE 1 END, joined_at ASC, id ASC").
		Find(&members).Error

	return members, errors.Wrap(err, "listing members")
}

// ================== HELPER FUNCTIONS ==================

// IsTeamMember checks if a user is a member of a team
func (s *TeamService) IsTeamMember(userID, teamID uint) bool {
	ok, err := isMember(s.db, userID, teamID)
	return err == nil && ok
}

// GetMemberRole returns the role of a user in a team
func (s *TeamService) GetMemberRole(userID, teamID uint) (models.TeamRole, error) {
	member, err := findMember(s.db, teamID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", ErrNotMember
	}
	return member.Role, nil
}

func findMember(tx *gorm.DB, teamID, userID uint) (*models.TeamMember, error) {
	var member models.TeamMember
	err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "loading membership")
	}
	return &member, nil
}

func (s *TeamService) fillMemberCounts(teams []models.Team) error {
	if len(teams) == 0 {
		return nil
	}

	ids := make([]uint, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}

	var rows []struct {
		TeamID uint
		Count  int64
	}
	err := s.db.Model(&models.TeamMember{}).
		Select("team_id, COUNT(*) AS count").
		Where("team_id IN ?", ids).
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return errors.Wrap(err, "counting members")
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.TeamID] = r.Count
	}
	for i := range teams {
		teams[i].MemberCount = counts[teams[i].ID]
	}
	return nil
}
