package service

import (
	"strings"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
)

// NormalizeEmail trims and lowercases an address before any comparison or
// storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AdminList is the configured set of administrator addresses. It is the only
// way an account becomes admin.
type AdminList struct {
	emails map[string]struct{}
}

// NewAdminList normalizes the configured addresses once.
func NewAdminList(emails []string) *AdminList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if n := NormalizeEmail(e); n != "" {
			set[n] = struct{}{}
		}
	}
	return &AdminList{emails: set}
}

// IsAdminEmail reports exact membership of the normalized address.
func (l *AdminList) IsAdminEmail(email string) bool {
	if l == nil {
		return false
	}
	_, ok := l.emails[NormalizeEmail(email)]
	return ok
}

// EffectiveRole is admin for allow-listed addresses and the stored role
// otherwise. The allow-list always wins.
func (l *AdminList) EffectiveRole(email, storedRole string) string {
	if l.IsAdminEmail(email) {
		return model.RoleAdmin
	}
	if storedRole == "" {
		return model.RoleStudent
	}
	return storedRole
}
