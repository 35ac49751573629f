package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("shipped")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ParseStatus("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("supervisor")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleLab.CanRegisterSamples())
	assert.False(t, RoleLab.CanTransitionSamples())

	assert.True(t, RoleManager.CanTransitionSamples())
	assert.False(t, RoleManager.CanRegisterSamples())

	assert.True(t, RoleAdmin.CanRegisterSamples())
	assert.True(t, RoleAdmin.CanTransitionSamples())
	assert.True(t, RoleAdmin.CanManageAccounts())
	assert.False(t, RoleManager.CanManageAccounts())
}
