// services/validate.go - Shared input checks
package services

import (
	"strings"
	"unicode/utf8"
)

// Column sizes, counted in characters.
const (
	maxUserNameLength       = 100
	maxTeamNameLength       = 100
	maxRequiredLevelLength  = 100
	maxGradeOrYearLength    = 50
	maxRequestMessageLength = 1000
)

func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return Invalid("%s must be at most %d characters", field, max)
	}
	return nil
}

// teamName trims and checks a team name for both create and update.
func teamName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", Invalid("Team name is required")
	}
	if err := checkLength("Team name", name, maxTeamNameLength); err != nil {
		return "", err
	}
	return name, nil
}
