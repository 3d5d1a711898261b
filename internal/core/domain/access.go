package domain

import "strings"

// Role is the access-control principal a query or ingestion runs as.
type Role string

// Built-in roles.
const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleMarketing Role = "marketing"
	RoleSales     Role = "sales"
	RoleUser      Role = "user"
)

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// IsAdmin reports whether the role bypasses source filtering.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// AllRoles returns the built-in roles.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleDeveloper, RoleMarketing, RoleSales, RoleUser}
}

// AccessPolicy maps a role to the source categories it may read.
// Roles missing from the table fall back to the RoleUser rule.
type AccessPolicy struct {
	rules map[Role][]string
}

// DefaultAccessPolicy returns the built-in role table.
func DefaultAccessPolicy() AccessPolicy {
	return NewAccessPolicy(map[Role][]string{
		RoleDeveloper: {"github", "slack-dev", "slack-general", UploadedSourcePrefix},
		RoleMarketing: {"slack-marketing", "outlook", "slack-general", UploadedSourcePrefix},
		RoleSales:     {"slack-sales", "outlook", "slack-general", UploadedSourcePrefix},
		RoleUser:      {"slack-general", UploadedSourcePrefix},
	})
}

// NewAccessPolicy builds a policy from a role table. The table is copied.
func NewAccessPolicy(rules map[Role][]string) AccessPolicy {
	copied := make(map[Role][]string, len(rules))
	for role, sources := range rules {
		copied[role] = append([]string(nil), sources...)
	}
	return AccessPolicy{rules: copied}
}

// WithRule returns a copy of the policy with the sources for role replaced.
func (p AccessPolicy) WithRule(role Role, sources []string) AccessPolicy {
	next := NewAccessPolicy(p.rules)
	next.rules[role] = append([]string(nil), sources...)
	return next
}

// Allowed returns the source categories the role may read.
func (p AccessPolicy) Allowed(role Role) []string {
	if sources, ok := p.rules[role]; ok {
		return sources
	}
	return p.rules[RoleUser]
}

// Visible reports whether an entry may be shown to role.
//
// Admin sees everything. Uploaded sources need the uploaded_document
// category; every other source must match an allowed category verbatim.
func (p AccessPolicy) Visible(entry DocumentEntry, role Role) bool {
	if role.IsAdmin() {
		return true
	}

	allowed := p.Allowed(role)
	if strings.HasPrefix(entry.Source, UploadedSourcePrefix) {
		return contains(allowed, UploadedSourcePrefix)
	}
	return contains(allowed, entry.Source)
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
