// models/profile.go
package models

import (
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Profile struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	UserID             uint                        `json:"user_id" gorm:"not null;uniqueIndex"`
	Role               ProfileRole                 `json:"role" gorm:"type:varchar(255);not null"`
	GradeOrYear        string                      `json:"grade_or_year" gorm:"size:50"`
	Interests          datatypes.JSONSlice[string] `json:"interests"`
	Skills             datatypes.JSONSlice[string] `json:"skills"`
	OlympiadExperience string                      `json:"olympiad_experience" gorm:"type:text"`
	About              string                      `json:"about" gorm:"type:text"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// NormalizeTags trims, de-duplicates (case-insensitively) and sorts a tag list,
// so two profiles with the same tags in a different order store the same value.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
