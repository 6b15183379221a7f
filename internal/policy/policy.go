// Package policy contains the pure authorization predicates. Functions here
// never perform I/O; callers load the entities and evaluate synchronously.
package policy

import (
	"quill/internal/models"
)

// IsAdmin reports whether the identity holds the admin role.
func IsAdmin(u *models.User) bool {
	return u != nil && u.IsAdmin()
}

// CanEditComment allows the comment's author and admins.
func CanEditComment(u *models.User, c *models.Comment) bool {
	if u == nil || c == nil {
		return false
	}
	return IsAdmin(u) || u.ID == c.UserID
}
