package services

import (
	"strings"
	"testing"

	"teammatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamAddsCreatorMembership(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")

	team, err := f.teams.CreateTeam(leader.ID, CreateTeamInput{
		Name:           "  Segment Tree Fans ",
		OlympiadID:     f.olympiad.ID,
		RequiredSkills: []string{"DP", "graphs", "dp", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Segment Tree Fans", team.Name)
	assert.Equal(t, models.DefaultMaxMembers, team.MaxMembers)
	assert.True(t, team.IsOpen)
	assert.Equal(t, []string{"DP", "graphs"}, []string(team.RequiredSkills))

	role, err := f.teams.GetMemberRole(leader.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamRoleCreator, role)

	loaded, err := f.teams.GetTeamByID(team.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.MemberCount)
	require.NotNil(t, loaded.Olympiad)
	assert.Equal(t, f.olympiad.Slug, loaded.Olympiad.Slug)
}

func TestCreateTeamValidation(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")

	_, err := f.teams.CreateTeam(leader.ID, CreateTeamInput{Name: "", OlympiadID: f.olympiad.ID})
	requireCode(t, err, "INVALID_INPUT")

	_, err = f.teams.CreateTeam(leader.ID, CreateTeamInput{Name: "x", OlympiadID: f.olympiad.ID, MaxMembers: -1})
	requireCode(t, err, "INVALID_INPUT")

	_, err = f.teams.CreateTeam(leader.ID, CreateTeamInput{Name: "x", OlympiadID: 777})
	requireCode(t, err, "OLYMPIAD_NOT_FOUND")

	closed := false
	team, err := f.teams.CreateTeam(leader.ID, CreateTeamInput{Name: "x", OlympiadID: f.olympiad.ID, IsOpen: &closed})
	require.NoError(t, err)

	loaded, err := f.teams.GetTeamByID(team.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsOpen)
}

func TestCreatorCannotLeave(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	member := f.user("member")
	team := f.team(leader, 4)
	f.addMember(team, member)

	err := f.teams.LeaveTeam(leader.ID, team.ID)
	requireCode(t, err, "CREATOR_CANNOT_LEAVE")
	assert.Equal(t, "Team creator cannot leave. Delete the team instead.", err.Error())
	assert.Equal(t, int64(2), f.memberCount(team.ID))

	require.NoError(t, f.teams.LeaveTeam(member.ID, team.ID))
	assert.Equal(t, int64(1), f.memberCount(team.ID))

	requireCode(t, f.teams.LeaveTeam(member.ID, team.ID), "NOT_MEMBER")
	requireCode(t, f.teams.LeaveTeam(member.ID, 9999), "TEAM_NOT_FOUND")
}

func TestJoinTeamDirect(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	bare := f.user("bare", true)
	team := f.team(leader, 3)

	// The direct path does not ask for a profile.
	m, err := f.teams.JoinTeam(bare.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamRoleMember, m.Role)

	_, err = f.teams.JoinTeam(bare.ID, team.ID)
	requireCode(t, err, "ALREADY_MEMBER")

	_, err = f.teams.JoinTeam(9999, team.ID)
	requireCode(t, err, "USER_NOT_FOUND")

	_, err = f.teams.JoinTeam(bare.ID, 9999)
	requireCode(t, err, "TEAM_NOT_FOUND")

	isOpen := false
	_, err = f.teams.UpdateTeam(team.ID, leader.ID, UpdateTeamInput{IsOpen: &isOpen})
	require.NoError(t, err)

	late := f.user("late")
	_, err = f.teams.JoinTeam(late.ID, team.ID)
	requireCode(t, err, "TEAM_CLOSED")
}

func TestUpdateTeam(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	a := f.user("a")
	b := f.user("b")
	team := f.team(leader, 4)
	f.addMember(team, a)
	f.addMember(team, b)

	name := "Renamed"
	_, err := f.teams.UpdateTeam(team.ID, a.ID, UpdateTeamInput{Name: &name})
	requireCode(t, err, "FORBIDDEN")

	two := 2
	_, err = f.teams.UpdateTeam(team.ID, leader.ID, UpdateTeamInput{MaxMembers: &two})
	requireCode(t, err, "CAPACITY_BELOW_MEMBERS")

	three := 3
	skills := []string{"geometry", "Geometry", "math"}
	updated, err := f.teams.UpdateTeam(team.ID, leader.ID, UpdateTeamInput{
		Name:           &name,
		MaxMembers:     &three,
		RequiredSkills: &skills,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 3, updated.MaxMembers)
	assert.Equal(t, int64(3), updated.MemberCount)
	assert.Equal(t, []string{"geometry", "math"}, []string(updated.RequiredSkills))
}

func TestDeleteTeamCascades(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	member := f.user("member")
	candidate := f.user("candidate")
	team := f.team(leader, 4)
	f.addMember(team, member)
	f.submit(candidate, team)

	requireCode(t, f.teams.DeleteTeam(team.ID, member.ID), "FORBIDDEN")
	require.NoError(t, f.teams.DeleteTeam(team.ID, leader.ID))

	_, err := f.teams.GetTeamByID(team.ID)
	requireCode(t, err, "TEAM_NOT_FOUND")

	var members, requests int64
	require.NoError(t, f.db.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&members).Error)
	require.NoError(t, f.db.Model(&models.JoinRequest{}).Where("team_id = ?", team.ID).Count(&requests).Error)
	assert.Zero(t, members)
	assert.Zero(t, requests)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	a := f.user("a")
	b := f.user("b")
	team := f.team(leader, 4)
	f.addMember(team, a)
	f.addMember(team, b)

	requireCode(t, f.teams.RemoveMember(team.ID, a.ID, b.ID), "FORBIDDEN")
	requireCode(t, f.teams.RemoveMember(team.ID, leader.ID, leader.ID), "CANNOT_REMOVE_CREATOR")
	require.NoError(t, f.teams.RemoveMember(team.ID, leader.ID, b.ID))
	requireCode(t, f.teams.RemoveMember(team.ID, leader.ID, b.ID), "NOT_MEMBER")
	assert.Equal(t, int64(2), f.memberCount(team.ID))
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	a := f.user("a")
	outsider := f.user("outsider")
	team := f.team(leader, 4)
	f.addMember(team, a)

	requireCode(t, f.teams.TransferOwnership(team.ID, a.ID, a.ID), "INVALID_INPUT")
	requireCode(t, f.teams.TransferOwnership(team.ID, a.ID, leader.ID), "FORBIDDEN")
	requireCode(t, f.teams.TransferOwnership(team.ID, leader.ID, outsider.ID), "INVALID_INPUT")

	require.NoError(t, f.teams.TransferOwnership(team.ID, leader.ID, a.ID))

	loaded, err := f.teams.GetTeamByID(team.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, loaded.CreatorID)

	members, err := f.teams.GetTeamMembers(team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, a.ID, members[0].UserID)
	assert.Equal(t, models.TeamRoleCreator, members[0].Role)
	assert.Equal(t, models.TeamRoleMember, members[1].Role)

	// The old creator may now leave.
	require.NoError(t, f.teams.LeaveTeam(leader.ID, team.ID))

	violations, err := AuditInvariants(f.db)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestUserAndOlympiadTeamLists(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	member := f.user("member")
	t1 := f.team(leader, 4)
	t2 := f.team(leader, 4)
	f.addMember(t2, member)

	isOpen := false
	_, err := f.teams.UpdateTeam(t1.ID, leader.ID, UpdateTeamInput{IsOpen: &isOpen})
	require.NoError(t, err)

	mine, err := f.teams.GetUserTeams(leader.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := f.teams.GetUserTeams(member.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, t2.ID, theirs[0].ID)
	assert.Equal(t, int64(2), theirs[0].MemberCount)

	all, err := f.teams.ListOlympiadTeams(f.olympiad.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := f.teams.ListOlympiadTeams(f.olympiad.ID, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, t2.ID, open[0].ID)
}

func TestTeamNameLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")

	team, err := f.teams.CreateTeam(leader.ID, CreateTeamInput{Name: strings.Repeat("Ж", 60), OlympiadID: f.olympiad.ID})
	require.NoError(t, err)

	_, err = f.teams.CreateTeam(leader.ID, CreateTeamInput{Name: strings.Repeat("Ж", 101), OlympiadID: f.olympiad.ID})
	requireCode(t, err, "INVALID_INPUT")

	long := strings.Repeat("a", 500)
	_, err = f.teams.UpdateTeam(team.ID, leader.ID, UpdateTeamInput{Name: &long})
	requireCode(t, err, "INVALID_INPUT")

	blank := "   "
	_, err = f.teams.UpdateTeam(team.ID, leader.ID, UpdateTeamInput{Name: &blank})
	requireCode(t, err, "INVALID_INPUT")

	level := strings.Repeat("l", 101)
	_, err = f.teams.UpdateTeam(team.ID, leader.ID, UpdateTeamInput{RequiredLevel: &level})
	requireCode(t, err, "INVALID_INPUT")

	loaded, err := f.teams.GetTeamByID(team.ID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("Ж", 60), loaded.Name)
}
