package services

import (
	"testing"

	"teammatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJoinRequestOrder(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	candidate := f.user("candidate")
	bare := f.user("bare", true)

	open := f.team(leader, 3)

	closed := f.team(leader, 3)
	isOpen := false
	_, err := f.teams.UpdateTeam(closed.ID, leader.ID, UpdateTeamInput{IsOpen: &isOpen})
	require.NoError(t, err)

	full := f.team(leader, 1)

	closedAndFull := f.team(leader, 1)
	_, err = f.teams.UpdateTeam(closedAndFull.ID, leader.ID, UpdateTeamInput{IsOpen: &isOpen})
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID uint
		teamID uint
		code   string
	}{
		{"missing team wins over missing user", 9999, 9999, "TEAM_NOT_FOUND"},
		{"closed before full", candidate.ID, closedAndFull.ID, "TEAM_CLOSED"},
		{"closed before missing user", 9999, closed.ID, "TEAM_CLOSED"},
		{"full before missing user", 9999, full.ID, "TEAM_FULL"},
		{"full before missing profile", bare.ID, full.ID, "TEAM_FULL"},
		{"missing user", 9999, open.ID, "USER_NOT_FOUND"},
		{"missing profile", bare.ID, open.ID, "PROFILE_REQUIRED"},
		{"creator is already a member", leader.ID, open.ID, "ALREADY_MEMBER"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			requireCode(t, f.requests.ValidateJoinRequest(test.userID, test.teamID), test.code)
		})
	}

	require.NoError(t, f.requests.ValidateJoinRequest(candidate.ID, open.ID))
}

func TestValidateJoinRequestDuplicate(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	candidate := f.user("candidate")
	team := f.team(leader, 3)

	f.submit(candidate, team)
	requireCode(t, f.requests.ValidateJoinRequest(candidate.ID, team.ID), "DUPLICATE_REQUEST")

	var count int64
	require.NoError(t, f.db.Model(&models.JoinRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestValidateJoinRequestMemberBeforeDuplicate(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	candidate := f.user("candidate")
	team := f.team(leader, 3)

	f.submit(candidate, team)
	f.addMember(team, candidate)

	requireCode(t, f.requests.ValidateJoinRequest(candidate.ID, team.ID), "ALREADY_MEMBER")
}

func TestCapacityGateSharedByBothPaths(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	a := f.user("a")
	b := f.user("b")
	team := f.team(leader, 2)

	f.addMember(team, a)

	_, err := f.teams.JoinTeam(b.ID, team.ID)
	requireCode(t, err, "TEAM_FULL")

	_, err = f.requests.SubmitJoinRequest(b.ID, team.ID, "")
	requireCode(t, err, "TEAM_FULL")
}
