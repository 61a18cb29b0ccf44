// services/user_service.go - Accounts and own-profile management
package services

import (
	"net/mail"
	"strings"

	"teammatch/models"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Role               models.ProfileRole `json:"role"`
	GradeOrYear        string             `json:"grade_or_year"`
	Interests          []string           `json:"interests"`
	Skills             []string           `json:"skills"`
	OlympiadExperience string             `json:"olympiad_experience"`
	About              string             `json:"about"`
}

// ================== ACCOUNTS ==================

// Register creates an account. The password is stored exactly as given.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" {
		return nil, Invalid("Name is required")
	}
	if err := checkLength("Name", name, maxUserNameLength); err != nil {
		return nil, err
	}
	// Bare address only; Login matches it exactly.
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, Invalid("A valid email is required")
	}
	if in.Password == "" {
		return nil, Invalid("Password is required")
	}

	user := &models.User{Name: name, Email: email, Password: in.Password}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, "creating user")
	}

	log.WithFields(log.Fields{"user_id": user.ID}).Info("user registered")
	return user, nil
}

// Login returns the user whose email and password match.
func (s *UserService) Login(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, Invalid("Email and password required")
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "loading user")
	}

	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser loads a user with its profile.
func (s *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Profile").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "loading user %d", userID)
	}
	return &user, nil
}

// DeleteUser removes an account together with its profile, memberships and
// join requests. Users who still created teams must delete or hand them over
// first.
func (s *UserService) DeleteUser(userID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		var owned int64
		if err := tx.Model(&models.Team{}).Where("creator_id = ?", userID).Count(&owned).Error; err != nil {
			return errors.Wrap(err, "counting owned teams")
		}
		if owned > 0 {
			return ErrUserOwnsTeams
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.JoinRequest{}).Error; err != nil {
			return errors.Wrap(err, "deleting join requests")
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.TeamMember{}).Error; err != nil {
			return errors.Wrap(err, "deleting memberships")
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return errors.Wrap(err, "deleting profile")
		}
		return errors.Wrap(tx.Delete(&models.User{}, userID).Error, "deleting user")
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"user_id": userID}).Info("user deleted")
	return nil
}

// ================== PROFILE ==================

// UpsertProfile creates or replaces the caller's own profile.
func (s *UserService) UpsertProfile(userID uint, in ProfileInput) (*models.Profile, error) {
	role := in.Role
	if role.Kind == models.RoleOther {
		role = models.OtherRole(role.Other)
	}
	if err := role.Validate(); err != nil {
		return nil, Invalid("Invalid role: %s", err.Error())
	}
	gradeOrYear := strings.TrimSpace(in.GradeOrYear)
	if err := checkLength("Grade or year", gradeOrYear, maxGradeOrYearLength); err != nil {
		return nil, err
	}

	var profile models.Profile
	save := func(tx *gorm.DB) error {
		profile = models.Profile{}
		exists, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		err = tx.Where("user_id = ?", userID).First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "loading profile")
		}

		profile.UserID = userID
		profile.Role = role
		profile.GradeOrYear = gradeOrYear
		profile.Interests = models.NormalizeTags(in.Interests)
		profile.Skills = models.NormalizeTags(in.Skills)
		profile.OlympiadExperience = strings.TrimSpace(in.OlympiadExperience)
		profile.About = strings.TrimSpace(in.About)

		return errors.Wrap(tx.Save(&profile).Error, "saving profile")
	}

	// A concurrent first save wins the user_id unique index; the second
	// attempt then finds that row and updates it.
	err := s.db.Transaction(save)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = s.db.Transaction(save)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrProfileConflict
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": userID, "role": role.String()}).Info("profile saved")
	return &profile, nil
}

// GetOwnProfile returns the caller's profile.
func (s *UserService) GetOwnProfile(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Wrap(err, "loading profile")
	}
	return &profile, nil
}
