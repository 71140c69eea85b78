package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSatisfies(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleAdmin))
	assert.True(t, RoleAdmin.Satisfies(RoleTechnician))
	assert.True(t, RoleAdmin.Satisfies(RoleStaff))

	assert.True(t, RoleTechnician.Satisfies(RoleTechnician))
	assert.False(t, RoleTechnician.Satisfies(RoleAdmin))
	assert.False(t, RoleTechnician.Satisfies(RoleStaff))

	assert.True(t, RoleStaff.Satisfies(RoleStaff))
	assert.False(t, RoleStaff.Satisfies(RoleAdmin))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleTechnician.Valid())
	assert.True(t, RoleStaff.Valid())
	assert.False(t, Role("Manager").Valid())
}

func TestUserFullName(t *testing.T) {
	user := User{FirstName: "Ada", LastName: "Osei"}
	assert.Equal(t, "Ada Osei", user.FullName())
}
