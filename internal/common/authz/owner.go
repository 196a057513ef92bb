// Package authz holds the resource ownership check shared by the folder and
// form services.
package authz

import (
	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
)

// RequireOwner returns nil only when requesterID and ownerID are identical
// and non-empty. Callers must run it before any side effect.
func RequireOwner(requesterID, ownerID string) error {
	if requesterID == "" || ownerID == "" || requesterID != ownerID {
		return commonerrors.ErrForbidden
	}
	return nil
}
