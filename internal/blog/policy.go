package blog

import (
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CanModify reports whether actor may edit or delete something owned by
// ownerID: the owner or a superuser.
func CanModify(actor *models.User, ownerID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	return actor.IsSuperuser || actor.ID == ownerID
}

// CanEditProfile reports whether actor may edit userID's profile. Only the
// owner can; superusers get no override here.
func CanEditProfile(actor *models.User, userID uuid.UUID) bool {
	return actor != nil && actor.ID == userID
}
