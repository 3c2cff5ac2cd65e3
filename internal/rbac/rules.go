package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"grades:view-own",
		"user:first_access",
	},
	"professor": {
		"grades:view-any",
		"grades:set",
	},
}
