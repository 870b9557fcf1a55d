package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleAdmin, PermissionPayrollManage, true},
		{RoleManager, PermissionLedgerManage, true},
		{RoleManager, PermissionPayrollView, false},
		{RoleViewer, PermissionLedgerView, true},
		{RoleViewer, PermissionLedgerManage, false},
		{Role("owner"), PermissionLedgerView, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleViewer.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("owner").Valid())
}
