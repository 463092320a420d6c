package rbac

// fallbackRoute is returned when a role has no grants at all.
const fallbackRoute = "/dashboard"

// HasModuleAccess reports whether role may enter module at all.
// RoleSuperAdmin bypasses the matrix.
func HasModuleAccess(role Role, module Module) bool {
	if role == RoleSuperAdmin {
		return true
	}
	grants, ok := matrix[role]
	if !ok {
		return false
	}
	actions, ok := grants[module]
	return ok && len(actions) > 0
}

// HasActionPermission reports whether role may perform action on module.
// RoleSuperAdmin bypasses the matrix.
func HasActionPermission(role Role, module Module, action Action) bool {
	if role == RoleSuperAdmin {
		return true
	}
	grants, ok := matrix[role]
	if !ok {
		return false
	}
	for _, a := range grants[module] {
		if a == action {
			return true
		}
	}
	return false
}

// ActionsFor returns the granted actions for role on module. Superadmin
// receives every action.
func ActionsFor(role Role, module Module) []Action {
	if role == RoleSuperAdmin {
		return []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionPrint}
	}
	grants, ok := matrix[role]
	if !ok {
		return nil
	}
	actions := grants[module]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// DefaultRouteForRole returns the landing route for a role: the dashboard
// when permitted, otherwise the first permitted module in declared order,
// otherwise a fixed fallback.
func DefaultRouteForRole(role Role) string {
	if HasModuleAccess(role, ModuleDashboard) {
		return "/" + string(ModuleDashboard)
	}
	for _, m := range moduleOrder {
		if HasModuleAccess(role, m) {
			return "/" + string(m)
		}
	}
	return fallbackRoute
}
