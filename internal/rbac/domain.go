// Package rbac holds the compiled-in role/module/action permission model.
package rbac

// Role is a fixed set of user roles known at compile time.
type Role string

const (
	RoleSuperAdmin        Role = "SUPERADMIN"
	RoleAdmin             Role = "ADMIN"
	RoleFinance           Role = "FINANCE"
	RoleTeller            Role = "TELLER"
	RoleCEO               Role = "CEO"
	RoleDeputyCEO         Role = "DEPUTY_CEO"
	RoleExecutive         Role = "EXECUTIVE"
	RoleSmallScaleAssayer Role = "SMALL_SCALE_ASSAYER"
	RoleLargeScaleAssayer Role = "LARGE_SCALE_ASSAYER"
	RoleUser              Role = "USER"
)

// Module names a coarse functional area used as the unit of access control.
type Module string

const (
	ModuleDashboard          Module = "dashboard"
	ModuleReports            Module = "reports"
	ModuleJobCards           Module = "job-cards"
	ModuleJobCardsLargeScale Module = "job-cards/large-scale"
	ModuleSettings           Module = "settings"
	ModulePaymentReceipting  Module = "payment-receipting"
	ModuleSealingCert        Module = "sealing-certification"
	ModuleValuations         Module = "valuations"
	ModuleSetup              Module = "setup"
	ModulePendingApprovals   Module = "pending-approvals"
	ModuleNotifications      Module = "notifications"
)

// Action is a capability within a module.
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionPrint   Action = "print"
)
