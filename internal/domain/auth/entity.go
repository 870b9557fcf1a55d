package auth

type Role string

const (
	RoleAdmin   Role = "admin"   // salary data and everything below
	RoleManager Role = "manager" // ledger bookkeeping
	RoleViewer  Role = "viewer"  // read only
)

func (r Role) Valid() bool {
	_, ok := RolePermissions[r]
	return ok
}

type Permission string

const (
	PermissionLedgerView   Permission = "ledger.view"
	PermissionLedgerManage Permission = "ledger.manage"

	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	PermissionPayrollView   Permission = "payroll.view"
	PermissionPayrollManage Permission = "payroll.manage"
)

var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionLedgerView,
		PermissionLedgerManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionPayrollView,
		PermissionPayrollManage,
	},
	RoleManager: {
		PermissionLedgerView,
		PermissionLedgerManage,
		PermissionEmployeeView,
	},
	RoleViewer: {
		PermissionLedgerView,
		PermissionEmployeeView,
	},
}

func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
