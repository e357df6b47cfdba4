package model

// Permission represents a string code for a specific console action.
// Codes are issued by the exam backend and embedded in admin tokens.
type Permission string

const (
	// PermissionExamsRead allows viewing exam lists, the calendar and exports.
	PermissionExamsRead Permission = "exams:read"

	// PermissionExamsWrite allows deleting exams.
	PermissionExamsWrite Permission = "exams:write"

	// PermissionExamsGenerate allows running the exam generation wizard.
	PermissionExamsGenerate Permission = "exams:generate"

	// PermissionSettingsWrite allows changing console-wide settings such as the theme.
	PermissionSettingsWrite Permission = "settings:write"
)
