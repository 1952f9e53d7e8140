package schema

// Role and permission names understood by the whitelists.
const (
	PermissionAdmin   = "admin"
	PermissionManager = "manager"
	PermissionAgent   = "agent"
	PermissionLead    = "lead"
	PermissionBasic   = "basic"
)

// queryWhitelist maps a permission to the tables it may read. The first
// matching permission wins; everyone else gets the basic set.
var queryWhitelist = map[string][]string{
	PermissionManager: {
		"rooms", "buildings", "tenants", "leads", "operators",
		"tour_bookings", "tour_availability_slots",
	},
	PermissionAgent: {
		"rooms", "buildings", "leads", "tour_bookings", "tour_availability_slots",
	},
	PermissionLead:  {"rooms", "buildings"},
	PermissionBasic: {"rooms", "buildings"},
}

// updateWhitelist maps a permission to the tables it may modify. Basic users
// may not modify anything.
var updateWhitelist = map[string][]string{
	PermissionAdmin:   {"rooms", "buildings", "tenants", "leads", "operators"},
	PermissionManager: {"rooms", "tenants", "tour_bookings"},
	PermissionAgent:   {"leads"},
}

// QueryTables returns the tables the given permissions may read. Admin gets
// the full catalog.
func (r *Registry) QueryTables(permissions []string) []string {
	for _, p := range permissions {
		if p == PermissionAdmin {
			return r.TableNames()
		}
	}
	for _, p := range []string{PermissionManager, PermissionAgent, PermissionLead, PermissionBasic} {
		if containsString(permissions, p) {
			return cloneStrings(queryWhitelist[p])
		}
	}
	return cloneStrings(queryWhitelist[PermissionBasic])
}

// UpdateTables returns the tables the given permissions may modify. Returns
// an empty slice for permissions with no update rights.
func (r *Registry) UpdateTables(permissions []string) []string {
	for _, p := range []string{PermissionAdmin, PermissionManager, PermissionAgent} {
		if containsString(permissions, p) {
			return cloneStrings(updateWhitelist[p])
		}
	}
	return nil
}

// IsTableAllowed reports whether table is in the allowed set.
func IsTableAllowed(table string, allowed []string) bool {
	return containsString(allowed, table)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cloneStrings(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
