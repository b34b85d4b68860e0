package model

// Permission represents a string code for a specific console action.
type Permission string

const (
	// PermissionClassesRead allows viewing classes.
	PermissionClassesRead Permission = "classes:read"

	// PermissionClassesWrite allows creating, renaming and deleting classes.
	// Deleting a class cascades to everything scoped to it.
	PermissionClassesWrite Permission = "classes:write"

	// PermissionUsersRead allows viewing user accounts.
	PermissionUsersRead Permission = "users:read"

	// PermissionUsersWrite allows creating, updating, deactivating and deleting users.
	PermissionUsersWrite Permission = "users:write"

	// PermissionUsersResetSession allows revoking another user's console session.
	PermissionUsersResetSession Permission = "users:reset_session"

	// PermissionAssignmentsRead allows viewing assignments.
	PermissionAssignmentsRead Permission = "assignments:read"

	// PermissionAssignmentsWriteOwn allows creating assignments and editing own ones.
	PermissionAssignmentsWriteOwn Permission = "assignments:write_own"

	// PermissionAssignmentsWriteAll allows editing any assignment.
	PermissionAssignmentsWriteAll Permission = "assignments:write_all"

	// PermissionSubmissionsRead allows viewing submissions.
	PermissionSubmissionsRead Permission = "submissions:read"

	// PermissionSubmissionsWrite allows creating, editing and deleting submissions.
	PermissionSubmissionsWrite Permission = "submissions:write"

	// PermissionSubmissionsGrade allows scoring submissions.
	PermissionSubmissionsGrade Permission = "submissions:grade"

	// PermissionActionsRead allows viewing the admin action log.
	PermissionActionsRead Permission = "actions:read"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionClassesRead,
	PermissionClassesWrite,
	PermissionUsersRead,
	PermissionUsersWrite,
	PermissionUsersResetSession,
	PermissionAssignmentsRead,
	PermissionAssignmentsWriteOwn,
	PermissionAssignmentsWriteAll,
	PermissionSubmissionsRead,
	PermissionSubmissionsWrite,
	PermissionSubmissionsGrade,
	PermissionActionsRead,
}

var rolePermissions = map[Role][]Permission{
	RoleAdmin: AllPermissions,
	RoleInstructor: {
		PermissionClassesRead,
		PermissionUsersRead,
		PermissionAssignmentsRead,
		PermissionAssignmentsWriteOwn,
		PermissionSubmissionsRead,
		PermissionSubmissionsGrade,
		PermissionActionsRead,
	},
	RoleStudent: {
		PermissionAssignmentsRead,
		PermissionSubmissionsRead,
		PermissionSubmissionsWrite,
	},
}

// PermissionsFor returns the permission codes granted to a user.
// Superusers hold every permission regardless of role.
func PermissionsFor(u *User) []string {
	perms := rolePermissions[u.Role]
	if u.IsSuperuser {
		perms = AllPermissions
	}
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	return codes
}
