package auth

import "strings"

const (
	AdminRoot = "/admin"
	LoginPath = "/admin/login"
)

// Decision is the outcome of an authorization check. An empty Redirect means
// the request may proceed.
type Decision struct {
	Redirect string
}

// Allowed reports whether the request passes through unchanged.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// IsAdminPath reports whether path is the admin root or below it.
func IsAdminPath(path string) bool {
	return path == AdminRoot || strings.HasPrefix(path, AdminRoot+"/")
}

// Decide is the single authorization rule shared by the admin route guard and
// the admin page handlers.
func Decide(path string, authenticated bool) Decision {
	switch {
	case path == LoginPath && authenticated:
		return Decision{Redirect: AdminRoot}
	case IsAdminPath(path) && path != LoginPath && !authenticated:
		return Decision{Redirect: LoginPath}
	default:
		return Decision{}
	}
}
