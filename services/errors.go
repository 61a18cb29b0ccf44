// services/errors.go - Business-rule failures returned to callers
package services

import (
	"fmt"
	"net/http"
	"strings"

	"teammatch/models"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindPreconditionFailed ErrorKind = "precondition_failed"
	KindForbidden          ErrorKind = "forbidden"
	KindInvalid            ErrorKind = "invalid"
)

// ServiceError is an expected business failure: the request was understood but
// a rule blocked it. Storage faults are never ServiceErrors.
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Status  int
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Is matches on Code so errors.Is(err, ErrTeamFull) works on fresh values.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code
}

// AsServiceError unwraps err into a *ServiceError if it is one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCode reports whether err is a ServiceError with the given code.
func IsCode(err error, code string) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == code
}

func newError(kind ErrorKind, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message, Status: statusFor(kind)}
}

func statusFor(kind ErrorKind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// Sentinels for errors.Is. Constructors below return fresh values with the
// same Code when the message needs detail.
var (
	ErrTeamNotFound         = newError(KindNotFound, "TEAM_NOT_FOUND", "Team not found")
	ErrUserNotFound         = newError(KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrRequestNotFound      = newError(KindNotFound, "REQUEST_NOT_FOUND", "Join request not found")
	ErrOlympiadNotFound     = newError(KindNotFound, "OLYMPIAD_NOT_FOUND", "Olympiad not found")
	ErrProfileNotFound      = newError(KindNotFound, "PROFILE_NOT_FOUND", "Profile not found")
	ErrTeamClosed           = newError(KindPreconditionFailed, "TEAM_CLOSED", "Team is not accepting new members")
	ErrTeamFull             = newError(KindPreconditionFailed, "TEAM_FULL", "Team is full")
	ErrProfileRequired      = withStatus(newError(KindPreconditionFailed, "PROFILE_REQUIRED", "You must complete your profile before requesting to join a team"), http.StatusForbidden)
	ErrAlreadyMember        = newError(KindConflict, "ALREADY_MEMBER", "You are already a member of this team")
	ErrDuplicateRequest     = newError(KindConflict, "DUPLICATE_REQUEST", "You already have a pending request for this team")
	ErrAlreadyDecided       = newError(KindConflict, "ALREADY_DECIDED", "Request has already been decided")
	ErrForbidden            = newError(KindForbidden, "FORBIDDEN", "Only the team creator can do this")
	ErrProfileAccessDenied  = newError(KindForbidden, "PROFILE_ACCESS_DENIED", ReasonAccessDenied)
	ErrNotMember            = newError(KindNotFound, "NOT_MEMBER", "You are not a member of this team")
	ErrCreatorCannotLeave   = newError(KindConflict, "CREATOR_CANNOT_LEAVE", "Team creator cannot leave. Delete the team instead.")
	ErrCannotRemoveCreator  = newError(KindConflict, "CANNOT_REMOVE_CREATOR", "Team creator cannot be removed")
	ErrEmailTaken           = newError(KindConflict, "EMAIL_TAKEN", "Email is already registered")
	ErrInvalidCredentials   = withStatus(newError(KindForbidden, "INVALID_CREDENTIALS", "Invalid credentials"), http.StatusUnauthorized)
	ErrUserOwnsTeams        = newError(KindConflict, "USER_OWNS_TEAMS", "Delete or hand over your teams before deleting your account")
	ErrCapacityBelowMembers = newError(KindConflict, "CAPACITY_BELOW_MEMBERS", "Max members cannot be lower than the current member count")
	ErrProfileConflict      = newError(KindConflict, "PROFILE_CONFLICT", "Profile was changed concurrently, please retry")
)

func withStatus(e *ServiceError, status int) *ServiceError {
	e.Status = status
	return e
}

func errAlreadyDecided(status models.JoinRequestStatus) *ServiceError {
	e := *ErrAlreadyDecided
	e.Message = fmt.Sprintf("Request has already been %s", strings.ToLower(string(status)))
	return &e
}

func errTeamFull(maxMembers int) *ServiceError {
	e := *ErrTeamFull
	e.Message = fmt.Sprintf("Team is full (%d/%d members)", maxMembers, maxMembers)
	return &e
}

// Invalid reports malformed input.
func Invalid(format string, args ...interface{}) *ServiceError {
	return newError(KindInvalid, "INVALID_INPUT", fmt.Sprintf(format, args...))
}
