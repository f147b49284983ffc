// Package policy holds the single ownership rule applied before every
// mutation of an owned resource. Keeping it one pure predicate makes the
// mutation paths auditable: handlers may not re-implement the check.
package policy

import (
	"bloghub/internal/auth"
	"bloghub/internal/models"
)

// CanMutate reports whether the caller may update or delete a resource
// owned by ownerID: admins may, owners may, nobody else.
func CanMutate(caller *auth.Claims, ownerID uint) bool {
	if caller == nil {
		return false
	}
	return caller.Role == models.RoleAdmin || caller.UserID == ownerID
}
