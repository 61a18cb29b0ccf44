package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanViewOwnProfile(t *testing.T) {
	f := newFixture(t)
	u := f.user("solo", true)

	d, err := f.access.CanViewProfile(u.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonSelfView, d.Reason)

	// Self view of a user without a profile succeeds with no profile.
	view, err := f.access.ViewProfile(u.ID, u.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Profile)
}

func TestLeaderAccessLapsesOnDecision(t *testing.T) {
	for _, decide := range []string{"approve", "reject"} {
		t.Run(decide, func(t *testing.T) {
			f := newFixture(t)
			leader := f.user("leader")
			candidate := f.user("candidate")
			team := f.team(leader, 4)

			d, err := f.access.CanViewProfile(leader.ID, candidate.ID)
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonAccessDenied, d.Reason)

			req := f.submit(candidate, team)

			view, err := f.access.ViewProfile(leader.ID, candidate.ID)
			require.NoError(t, err)
			require.NotNil(t, view.Profile)
			assert.Equal(t, candidate.ID, view.Profile.UserID)
			assert.Equal(t, `Viewing as leader of team "leader's team"`, view.Access.Reason)
			require.NotNil(t, view.Access.TeamID)
			assert.Equal(t, team.ID, *view.Access.TeamID)

			if decide == "approve" {
				_, _, err = f.requests.Approve(req.ID, leader.ID)
			} else {
				_, err = f.requests.Reject(req.ID, leader.ID)
			}
			require.NoError(t, err)

			_, err = f.access.ViewProfile(leader.ID, candidate.ID)
			requireCode(t, err, "PROFILE_ACCESS_DENIED")
			assert.Equal(t, ReasonAccessDenied, err.Error())
		})
	}
}

func TestAccessIsNotSymmetricOrTransitive(t *testing.T) {
	f := newFixture(t)
	leader := f.user("leader")
	candidate := f.user("candidate")
	other := f.user("other")
	team := f.team(leader, 4)
	f.submit(candidate, team)

	// The candidate cannot see the leader.
	d, err := f.access.CanViewProfile(candidate.ID, leader.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	// A bystander cannot see the candidate.
	d, err = f.access.CanViewProfile(other.ID, candidate.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestGetAuthorizedViewers(t *testing.T) {
	f := newFixture(t)
	l1 := f.user("l1")
	l2 := f.user("l2")
	candidate := f.user("candidate")

	t1 := f.team(l1, 4)
	t1b := f.team(l1, 4)
	t2 := f.team(l2, 4)

	viewers, err := f.access.GetAuthorizedViewers(candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{candidate.ID}, viewers)

	f.submit(candidate, t1)
	f.submit(candidate, t1b)
	r2 := f.submit(candidate, t2)

	viewers, err = f.access.GetAuthorizedViewers(candidate.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{candidate.ID, l1.ID, l2.ID}, viewers)

	_, err = f.requests.Reject(r2.ID, l2.ID)
	require.NoError(t, err)

	viewers, err = f.access.GetAuthorizedViewers(candidate.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{candidate.ID, l1.ID}, viewers)
}
