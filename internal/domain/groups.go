package domain

import "strings"

// Well-known broadcast groups.
const (
	GroupPrinters      = "printers"
	GroupNotifications = "notifications"
	GroupOwners        = "owners"
)

// SanitizeEmail maps an email address to a group-name-safe form: every '@'
// becomes "_at_" and every '.' becomes "_dot_". The mapping is intentionally
// kept bug-for-bug compatible with the ordering web app's frontend, including
// that it is not collision-free ("a_at_b_dot_com" and "a@b.com" map to the
// same output). Changing the encoding would break existing clients.
func SanitizeEmail(email string) string {
	return strings.ReplaceAll(strings.ReplaceAll(email, "@", "_at_"), ".", "_dot_")
}

// CustomerGroup returns the per-customer broadcast group for an email address.
func CustomerGroup(email string) string {
	return "customer_" + SanitizeEmail(email)
}
