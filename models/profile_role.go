package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type RoleKind string

const (
	RoleSchoolStudent  RoleKind = "school_student"
	RoleCollegeStudent RoleKind = "college_student"
	RoleGraduate       RoleKind = "graduate"
	RoleOther          RoleKind = "other"
)

const otherRolePrefix = "other:"

// ProfileRole is either one of the known kinds or Other with free text.
// The column encoding is the kind name, or "other:<text>" for Other.
type ProfileRole struct {
	Kind  RoleKind `json:"kind"`
	Other string   `json:"other,omitempty"`
}

func KnownRole(kind RoleKind) ProfileRole {
	return ProfileRole{Kind: kind}
}

func OtherRole(text string) ProfileRole {
	return ProfileRole{Kind: RoleOther, Other: strings.TrimSpace(text)}
}

func (r ProfileRole) IsZero() bool {
	return r.Kind == ""
}

func (r ProfileRole) Validate() error {
	switch r.Kind {
	case RoleSchoolStudent, RoleCollegeStudent, RoleGraduate:
		if r.Other != "" {
			return fmt.Errorf("role %q does not take free text", r.Kind)
		}
		return nil
	case RoleOther:
		if strings.TrimSpace(r.Other) == "" {
			return fmt.Errorf("role %q requires a description", RoleOther)
		}
		return nil
	case "":
		return fmt.Errorf("role is required")
	default:
		return fmt.Errorf("unknown role %q", r.Kind)
	}
}

func (r ProfileRole) String() string {
	if r.Kind == RoleOther {
		return otherRolePrefix + r.Other
	}
	return string(r.Kind)
}

// ParseProfileRole decodes the column encoding.
func ParseProfileRole(s string) (ProfileRole, error) {
	if strings.HasPrefix(s, otherRolePrefix) {
		r := OtherRole(strings.TrimPrefix(s, otherRolePrefix))
		return r, r.Validate()
	}
	r := KnownRole(RoleKind(s))
	return r, r.Validate()
}

func (r ProfileRole) GormDataType() string {
	return "string"
}

func (r ProfileRole) Value() (driver.Value, error) {
	if r.IsZero() {
		return "", nil
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r.String(), nil
}

func (r *ProfileRole) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*r = ProfileRole{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ProfileRole", value)
	}

	if s == "" {
		*r = ProfileRole{}
		return nil
	}

	parsed, err := ParseProfileRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalJSON accepts the object form and the flat string encoding.
// Validation is left to the caller.
func (r *ProfileRole) UnmarshalJSON(data []byte) error {
	var flat string
	if err := json.Unmarshal(data, &flat); err == nil {
		if strings.HasPrefix(flat, otherRolePrefix) {
			*r = OtherRole(strings.TrimPrefix(flat, otherRolePrefix))
		} else {
			*r = KnownRole(RoleKind(flat))
		}
		return nil
	}

	type plain ProfileRole
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ProfileRole(p)
	if r.Kind == RoleOther {
		r.Other = strings.TrimSpace(r.Other)
	}
	return nil
}
