package permissions

// Global permission keys gating the back-office surface.
const (
	ParishManage     = "parish.manage"
	FamilyManage     = "family.manage"
	ProfileManage    = "profile.manage"
	InviteCodeManage = "invite_code.manage"
	MediaAudit       = "media.audit"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "parish.manage"
	Name        string `json:"name"`        // friendly name, e.g., "Manage Parishes"
	Description string `json:"description"` // detailed description of what the permission allows
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:  "directory",
		Name: "Directory Management",
		Permissions: []PermissionDefinition{
			{
				Key:         ParishManage,
				Name:        "Manage Parishes",
				Description: "Allows creating, editing, and deleting parishes.",
			},
			{
				Key:         FamilyManage,
				Name:        "Manage Families",
				Description: "Allows creating, editing, and deleting families within any parish.",
			},
			{
				Key:         ProfileManage,
				Name:        "Manage Profiles",
				Description: "Allows editing, approving, and deleting member profiles.",
			},
		},
	},
	{
		Key:  "registration",
		Name: "Registration",
		Permissions: []PermissionDefinition{
			{
				Key:         InviteCodeManage,
				Name:        "Manage Invite Codes",
				Description: "Allows creating, editing, and revoking registration invite codes.",
			},
		},
	},
	{
		Key:  "media",
		Name: "Media",
		Permissions: []PermissionDefinition{
			{
				Key:         MediaAudit,
				Name:        "Audit Stored Media",
				Description: "Allows listing every photo file held under the media root.",
			},
		},
	},
}

// AllKeys returns every defined permission key, useful for seeding an
// administrator account.
func AllKeys() []string {
	var keys []string
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			keys = append(keys, perm.Key)
		}
	}
	return keys
}
