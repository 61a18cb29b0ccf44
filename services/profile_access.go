// services/profile_access.go - Who may read whose extended profile
package services

import (
	"fmt"

	"teammatch/models"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	ReasonSelfView     = "Viewing your own profile"
	ReasonAccessDenied = "You can only view profiles of users who have sent join requests to your teams"
)

// AccessDecision is the outcome of CanViewProfile. It is never stored:
// a leader's right lapses as soon as the request leaves PENDING.
type AccessDecision struct {
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason"`
	TeamID   *uint  `json:"team_id,omitempty"`
	TeamName string `json:"team_name,omitempty"`
}

// ProfileView is what the view-profile operation returns. Profile is nil when
// the user has not filled one in yet.
type ProfileView struct {
	UserID  uint            `json:"user_id"`
	Profile *models.Profile `json:"profile"`
	Access  AccessDecision  `json:"access"`
}

type ProfileAccessService struct {
	db *gorm.DB
}

func NewProfileAccessService(db *gorm.DB) *ProfileAccessService {
	return &ProfileAccessService{db: db}
}

// CanViewProfile decides whether viewerID may read profileUserID's profile:
// self-view always; otherwise only while profileUserID has a PENDING request
// to a team viewerID created.
func (s *ProfileAccessService) CanViewProfile(viewerID, profileUserID uint) (*AccessDecision, error) {
	if viewerID == profileUserID {
		return &AccessDecision{Allowed: true, Reason: ReasonSelfView}, nil
	}

	var grant struct {
		TeamID   uint
		TeamName string
	}
	res := s.db.Table("join_requests").
		Select("teams.id AS team_id, teams.name AS team_name").
		Joins("JOIN teams ON teams.id = join_requests.team_id").
		Where("join_requests.user_id = ? AND join_requests.status = ? AND teams.creator_id = ?",
			profileUserID, models.JoinRequestPending, viewerID).
		Order("join_requests.created_at ASC").
		Limit(1).
		Scan(&grant)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "checking profile access")
	}

	if res.RowsAffected == 0 {
		return &AccessDecision{Allowed: false, Reason: ReasonAccessDenied}, nil
	}

	teamID := grant.TeamID
	return &AccessDecision{
		Allowed:  true,
		Reason:   fmt.Sprintf("Viewing as leader of team %q", grant.TeamName),
		TeamID:   &teamID,
		TeamName: grant.TeamName,
	}, nil
}

// ViewProfile returns profileUserID's profile if viewerID may see it.
func (s *ProfileAccessService) ViewProfile(viewerID, profileUserID uint) (*ProfileView, error) {
	decision, err := s.CanViewProfile(viewerID, profileUserID)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		log.WithFields(log.Fields{
			"viewer_id":       viewerID,
			"profile_user_id": profileUserID,
		}).Warn("profile access denied")
		return nil, ErrProfileAccessDenied
	}

	view := &ProfileView{UserID: profileUserID, Access: *decision}

	var profile models.Profile
	err = s.db.Where("user_id = ?", profileUserID).First(&profile).Error
	switch {
	case err == nil:
		view.Profile = &profile
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, errors.Wrap(err, "loading profile")
	}

	return view, nil
}

// GetAuthorizedViewers lists every user currently allowed to view userID's
// profile: the user and the creators of teams it has a PENDING request to.
func (s *ProfileAccessService) GetAuthorizedViewers(userID uint) ([]uint, error) {
	var creators []uint
	err := s.db.Table("join_requests").
		Distinct("teams.creator_id").
		Joins("JOIN teams ON teams.id = join_requests.team_id").
		Where("join_requests.user_id = ? AND join_requests.status = ?", userID, models.JoinRequestPending).
		Order("teams.creator_id").
		Pluck("teams.creator_id", &creators).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing authorized viewers")
	}

	viewers := []uint{userID}
	for _, id := range creators {
		if id != userID {
			viewers = append(viewers, id)
		}
	}
	return viewers, nil
}
