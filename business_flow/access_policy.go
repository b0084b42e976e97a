package businessflow

import (
	"strings"

	"github.com/carbridge/shipping-pricing/models"
	"github.com/google/uuid"
)

// Actor identifies an already-authenticated caller. Authentication and coarse role
// checks happen upstream; this package only scopes which record and which adjustment
// component the actor may touch.
type Actor struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// TargetScope is the resolved target identity plus the adjustment component role the
// caller writes through.
type TargetScope struct {
	UserID uuid.UUID
	Role   string // models.AdjustedByUser or models.AdjustedByAdmin
}

// ResolveTarget is the single decision point for role scoping. An admin naming an
// explicit target acts on that user through the admin-owned component; everyone else
// (including an admin that names no target) acts on themselves through the user-owned
// component. Every read and write path goes through here so scoping stays uniform.
func ResolveTarget(actor Actor, explicitTargetUserID *string) (TargetScope, error) {
	callerID, err := parseActorID(actor)
	if err != nil {
		return TargetScope{}, err
	}

	if actor.IsAdmin && explicitTargetUserID != nil && strings.TrimSpace(*explicitTargetUserID) != "" {
		targetID, err := uuid.Parse(strings.TrimSpace(*explicitTargetUserID))
		if err != nil {
			return TargetScope{}, NewBusinessError("TARGET_USER_INVALID", "Target user id is invalid", ErrTargetUserInvalid)
		}
		return TargetScope{UserID: targetID, Role: models.AdjustedByAdmin}, nil
	}

	return TargetScope{UserID: callerID, Role: models.AdjustedByUser}, nil
}

// ResolveListScope resolves the user scope for list reads. A nil result means the
// admin-wide view (all users); admins get it by naming no target. Everyone else is
// pinned to ResolveTarget's scoping, so a non-admin can never list another user's rows
// regardless of query parameters.
func ResolveListScope(actor Actor, explicitTargetUserID *string) (*uuid.UUID, error) {
	if actor.IsAdmin && (explicitTargetUserID == nil || strings.TrimSpace(*explicitTargetUserID) == "") {
		if _, err := parseActorID(actor); err != nil {
			return nil, err
		}
		return nil, nil
	}

	scope, err := ResolveTarget(actor, explicitTargetUserID)
	if err != nil {
		return nil, err
	}
	return &scope.UserID, nil
}

func parseActorID(actor Actor) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(actor.UserID)
	if trimmed == "" {
		return uuid.Nil, NewBusinessError("IDENTITY_REQUIRED", "Caller identity is required", ErrIdentityRequired)
	}
	callerID, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, NewBusinessError("IDENTITY_INVALID", "Caller identity is invalid", ErrIdentityInvalid)
	}
	return callerID, nil
}
