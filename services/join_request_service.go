// services/join_request_service.go - Join-request workflow
package services

import (
	"strings"
	"time"

	"teammatch/models"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type JoinRequestService struct {
	db *gorm.DB
}

func NewJoinRequestService(db *gorm.DB) *JoinRequestService {
	return &JoinRequestService{db: db}
}

// PendingRequest is a pending join request with the applicant card a leader
// sees in the review list.
type PendingRequest struct {
	models.JoinRequest
	Applicant models.UserSummary `json:"applicant"`
}

// ================== SUBMISSION ==================

// ValidateJoinRequest reports whether userID may request to join teamID.
// It has no side effects.
func (s *JoinRequestService) ValidateJoinRequest(userID, teamID uint) error {
	_, err := validateJoinRequest(s.db, userID, teamID)
	return err
}

// SubmitJoinRequest validates and then stores a PENDING request. A concurrent
// duplicate that slips past validation is caught by the pending-request unique
// index and reported as DUPLICATE_REQUEST.
func (s *JoinRequestService) SubmitJoinRequest(userID, teamID uint, message string) (*models.JoinRequest, error) {
	message = strings.TrimSpace(message)
	if err := checkLength("Message", message, maxRequestMessageLength); err != nil {
		return nil, err
	}

	if _, err := validateJoinRequest(s.db, userID, teamID); err != nil {
		return nil, err
	}

	req := &models.JoinRequest{
		UserID: userID,
		TeamID: teamID,
		Status: models.JoinRequestPending,
	}
	if message != "" {
		req.Message = &message
	}

	if err := s.db.Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRequest
		}
		return nil, errors.Wrap(err, "creating join request")
	}

	log.WithFields(log.Fields{
		"request_id": req.ID,
		"user_id":    userID,
		"team_id":    teamID,
	}).Info("join request submitted")

	return req, nil
}

// ================== QUERIES ==================

// GetMyRequestStatus returns the newest request of userID for teamID, or nil.
func (s *JoinRequestService) GetMyRequestStatus(userID, teamID uint) (*models.JoinRequest, error) {
	var req models.JoinRequest
	err := s.db.Where("user_id = ? AND team_id = ?", userID, teamID).
		Order("created_at DESC, id DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "loading request status")
	}
	return &req, nil
}

// ListMyRequests returns every request of userID, newest first.
func (s *JoinRequestService) ListMyRequests(userID uint) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	err := s.db.Where("user_id = ?", userID).
		Preload("Team").
		Order("created_at DESC, id DESC").
		Find(&reqs).Error
	return reqs, errors.Wrap(err, "listing requests")
}

// ListPendingRequests returns the pending requests of a team, oldest first.
// Only the team creator may list them.
func (s *JoinRequestService) ListPendingRequests(teamID, actorID uint) ([]PendingRequest, error) {
	team, err := loadTeam(s.db, teamID, false)
	if err != nil {
		return nil, err
	}
	if team.CreatorID != actorID {
		return nil, ErrForbidden
	}

	var reqs []models.JoinRequest
	err = s.db.Where("team_id = ? AND status = ?", teamID, models.JoinRequestPending).
		Preload("User").
		Preload("User.Profile").
		Order("created_at ASC, id ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing pending requests")
	}

	out := make([]PendingRequest, 0, len(reqs))
	for _, r := range reqs {
		p := PendingRequest{JoinRequest: r}
		if r.User != nil {
			p.Applicant = r.User.Summary()
		}
		p.User = nil
		out = append(out, p)
	}
	return out, nil
}

// ================== DECISIONS ==================

// ValidateRequestAction checks that actorID may decide requestID:
// the request exists, is still PENDING and actorID created its team.
func (s *JoinRequestService) ValidateRequestAction(requestID, actorID uint) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := s.db.Preload("Team").First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, errors.Wrapf(err, "loading request %d", requestID)
	}

	if req.Status.IsTerminal() {
		return nil, errAlreadyDecided(req.Status)
	}

	if req.Team == nil || req.Team.CreatorID != actorID {
		return nil, ErrForbidden
	}

	return &req, nil
}

// ApproveJoinRequest flips a PENDING request to APPROVED and adds the
// applicant as a member, all in one transaction. The team row is locked
// first so the capacity re-check cannot race another approval or a direct
// join. If the membership insert fails the status change is rolled back.
func (s *JoinRequestService) ApproveJoinRequest(requestID uint) (*models.JoinRequest, *models.TeamMember, error) {
	var (
		req    models.JoinRequest
		member *models.TeamMember
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var first models.JoinRequest
		if err := tx.First(&first, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return errors.Wrapf(err, "loading request %d", requestID)
		}

		team, err := loadTeam(tx, first.TeamID, true)
		if err != nil {
			return err
		}

		// Re-read under the team lock.
		if err := tx.First(&req, requestID).Error; err != nil {
			return errors.Wrapf(err, "reloading request %d", requestID)
		}
		if req.Status.IsTerminal() {
			return errAlreadyDecided(req.Status)
		}

		count, err := countMembers(tx, team.ID)
		if err != nil {
			return err
		}
		if team.IsFull(count) {
			return errTeamFull(team.MaxMembers)
		}

		res := tx.Model(&models.JoinRequest{}).
			Where("id = ? AND status = ?", requestID, models.JoinRequestPending).
			Update("status", models.JoinRequestApproved)
		if res.Error != nil {
			return errors.Wrap(res.Error, "approving request")
		}
		if res.RowsAffected == 0 {
			var current models.JoinRequest
			if err := tx.Select("status").First(&current, requestID).Error; err != nil {
				return errors.Wrapf(err, "reloading request %d", requestID)
			}
			return errAlreadyDecided(current.Status)
		}

		member = &models.TeamMember{
			TeamID:   req.TeamID,
			UserID:   req.UserID,
			Role:     models.TeamRoleMember,
			JoinedAt: time.Now().UTC(),
		}
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return errors.Wrap(err, "adding member")
		}

		req.Status = models.JoinRequestApproved
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"request_id": req.ID,
		"user_id":    req.UserID,
		"team_id":    req.TeamID,
	}).Info("join request approved")

	return &req, member, nil
}

// RejectJoinRequest flips a PENDING request to REJECTED. The status guard in
// the UPDATE keeps decided requests untouched.
func (s *JoinRequestService) RejectJoinRequest(requestID uint) (*models.JoinRequest, error) {
	res := s.db.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", requestID, models.JoinRequestPending).
		Update("status", models.JoinRequestRejected)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "rejecting request")
	}

	var req models.JoinRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, errors.Wrapf(err, "loading request %d", requestID)
	}

	if res.RowsAffected == 0 {
		return nil, errAlreadyDecided(req.Status)
	}

	log.WithFields(log.Fields{
		"request_id": req.ID,
		"user_id":    req.UserID,
		"team_id":    req.TeamID,
	}).Info("join request rejected")

	return &req, nil
}

// Approve is the leader-facing operation: authority check, then approval.
func (s *JoinRequestService) Approve(requestID, actorID uint) (*models.JoinRequest, *models.TeamMember, error) {
	if _, err := s.ValidateRequestAction(requestID, actorID); err != nil {
		return nil, nil, err
	}
	return s.ApproveJoinRequest(requestID)
}

// Reject is the leader-facing operation: authority check, then rejection.
func (s *JoinRequestService) Reject(requestID, actorID uint) (*models.JoinRequest, error) {
	if _, err := s.ValidateRequestAction(requestID, actorID); err != nil {
		return nil, err
	}
	return s.RejectJoinRequest(requestID)
}
