package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinRequestStatusIsTerminal(t *testing.T) {
	assert.False(t, JoinRequestPending.IsTerminal())
	assert.True(t, JoinRequestApproved.IsTerminal())
	assert.True(t, JoinRequestRejected.IsTerminal())
}
