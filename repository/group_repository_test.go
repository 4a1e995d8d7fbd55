package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textilehub/models"
)

func TestPrepareMembersNormalizesAndOrders(t *testing.T) {
	members := []models.GroupMember{
		{Name: "Priya", PhoneNumber: "+91 98765 43210"},
		{Name: "Rahul", PhoneNumber: "98123-45678"},
	}

	require.NoError(t, prepareMembers(members))

	assert.Equal(t, "919876543210", members[0].PhoneNumber)
	assert.Equal(t, "9812345678", members[1].PhoneNumber)
	assert.NotEmpty(t, members[0].ID)
	assert.NotEmpty(t, members[1].ID)
	assert.True(t, members[1].CreatedAt.After(members[0].CreatedAt))
}

func TestPrepareMembersRejectsDuplicatePhones(t *testing.T) {
	// Same number in two formats collides after normalization.
	members := []models.GroupMember{
		{Name: "Priya", PhoneNumber: "+91 98765 43210"},
		{Name: "Priya (work)", PhoneNumber: "919876543210"},
	}

	err := prepareMembers(members)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists in the group")
}
