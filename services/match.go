// services/match.go - Advisory fit between a profile and a team's wishes
package services

import (
	"strings"

	"teammatch/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MatchReport says how well a profile covers a team's soft requirements.
// It never gates a request.
type MatchReport struct {
	TeamID           uint     `json:"team_id"`
	MatchedSkills    []string `json:"matched_skills"`
	MissingSkills    []string `json:"missing_skills"`
	MatchedInterests []string `json:"matched_interests"`
	MissingInterests []string `json:"missing_interests"`
	LevelMatches     bool     `json:"level_matches"`
	RequiredLevel    string   `json:"required_level,omitempty"`
	RequirementsNote string   `json:"requirements_note,omitempty"`
	Score            float64  `json:"score"`
}

// MatchProfile compares a profile with a team. Tags compare case-insensitively.
// An empty requirement list counts as fully matched.
func MatchProfile(profile *models.Profile, team *models.Team) MatchReport {
	r := MatchReport{
		TeamID:           team.ID,
		RequiredLevel:    team.RequiredLevel,
		RequirementsNote: team.RequirementsNote,
	}

	var skills, interests []string
	var grade string
	if profile != nil {
		skills = profile.Skills
		interests = profile.Interests
		grade = profile.GradeOrYear
	}

	r.MatchedSkills, r.MissingSkills = splitTags(team.RequiredSkills, skills)
	r.MatchedInterests, r.MissingInterests = splitTags(team.RequiredInterests, interests)

	level := strings.TrimSpace(team.RequiredLevel)
	r.LevelMatches = level == "" || strings.EqualFold(level, strings.TrimSpace(grade))

	wanted := len(team.RequiredSkills) + len(team.RequiredInterests)
	if level != "" {
		wanted++
	}
	if wanted == 0 {
		r.Score = 1
		return r
	}

	got := len(r.MatchedSkills) + len(r.MatchedInterests)
	if level != "" && r.LevelMatches {
		got++
	}
	r.Score = float64(got) / float64(wanted)
	return r
}

// MatchForUser loads userID's profile and teamID and compares them.
func MatchForUser(db *gorm.DB, userID, teamID uint) (*MatchReport, error) {
	team, err := loadTeam(db, teamID, false)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, errors.Wrap(err, "loading profile")
	}

	report := MatchProfile(&profile, team)
	return &report, nil
}

func splitTags(required, have []string) (matched, missing []string) {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	matched = []string{}
	missing = []string{}
	for _, req := range required {
		if _, ok := set[strings.ToLower(strings.TrimSpace(req))]; ok {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}
