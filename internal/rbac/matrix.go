package rbac

// moduleOrder fixes the iteration order used when scanning a role's grants.
// Absence of a module key for a role means no access to that module.
var moduleOrder = []Module{
	ModuleDashboard,
	ModuleReports,
	ModuleJobCards,
	ModuleJobCardsLargeScale,
	ModuleSettings,
	ModulePaymentReceipting,
	ModuleSealingCert,
	ModuleValuations,
	ModuleSetup,
	ModulePendingApprovals,
	ModuleNotifications,
}

// matrix is the authoritative grant table for every role except
// RoleSuperAdmin, which bypasses it entirely. Mutated only at compile time.
var matrix = map[Role]map[Module][]Action{
	RoleAdmin: {
		ModuleDashboard:          {ActionRead},
		ModuleReports:            {ActionRead, ActionPrint},
		ModuleJobCards:           {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionPrint},
		ModuleJobCardsLargeScale: {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionPrint},
		ModuleSettings:           {ActionRead, ActionUpdate},
		ModulePaymentReceipting:  {ActionRead, ActionCreate, ActionUpdate, ActionPrint},
		ModuleSealingCert:        {ActionRead, ActionCreate, ActionUpdate, ActionPrint},
		ModuleValuations:         {ActionRead, ActionCreate, ActionUpdate},
		ModuleSetup:              {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
		ModulePendingApprovals:   {ActionRead},
		ModuleNotifications:      {ActionRead, ActionCreate},
	},
	RoleFinance: {
		ModuleDashboard:         {ActionRead},
		ModuleReports:           {ActionRead, ActionPrint},
		ModulePaymentReceipting: {ActionRead, ActionCreate, ActionUpdate, ActionPrint},
		ModuleValuations:        {ActionRead},
		ModuleNotifications:     {ActionRead},
	},
	RoleTeller: {
		ModuleDashboard:         {ActionRead},
		ModulePaymentReceipting: {ActionRead, ActionCreate, ActionPrint},
		ModuleNotifications:     {ActionRead},
	},
	RoleCEO: {
		ModuleDashboard:        {ActionRead},
		ModuleReports:          {ActionRead, ActionPrint},
		ModuleValuations:       {ActionRead},
		ModulePendingApprovals: {ActionRead, ActionApprove},
		ModuleNotifications:    {ActionRead},
	},
	RoleDeputyCEO: {
		ModuleDashboard:        {ActionRead},
		ModuleReports:          {ActionRead, ActionPrint},
		ModuleValuations:       {ActionRead},
		ModulePendingApprovals: {ActionRead, ActionApprove},
		ModuleNotifications:    {ActionRead},
	},
	RoleExecutive: {
		ModuleDashboard:     {ActionRead},
		ModuleReports:       {ActionRead},
		ModuleNotifications: {ActionRead},
	},
	RoleSmallScaleAssayer: {
		ModuleDashboard:     {ActionRead},
		ModuleJobCards:      {ActionRead, ActionCreate, ActionUpdate, ActionPrint},
		ModuleSealingCert:   {ActionRead, ActionCreate, ActionPrint},
		ModuleValuations:    {ActionRead, ActionCreate, ActionUpdate},
		ModuleNotifications: {ActionRead},
	},
	RoleLargeScaleAssayer: {
		ModuleDashboard:          {ActionRead},
		ModuleJobCardsLargeScale: {ActionRead, ActionCreate, ActionUpdate, ActionPrint},
		ModuleSealingCert:        {ActionRead, ActionCreate, ActionPrint},
		ModuleValuations:         {ActionRead, ActionCreate, ActionUpdate},
		ModuleNotifications:      {ActionRead},
	},
	RoleUser: {
		ModuleDashboard:     {ActionRead},
		ModuleNotifications: {ActionRead},
	},
}

// Modules returns every known module in declared order.
func Modules() []Module {
	out := make([]Module, len(moduleOrder))
	copy(out, moduleOrder)
	return out
}
