package auth

import (
	"fmt"

	"gymclass/internal/apperr"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleTrainer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", apperr.ErrInvalid, s)
	}
}

// Action is a guarded transition or view.
type Action int

const (
	ActionBookForSelf Action = iota
	ActionCancelOwnBooking
	ActionCancelAnyBooking
	ActionDecideApproval
	ActionCheckIn
	ActionViewRoster
	ActionManageSchedule
	ActionManageCatalog
	ActionManageRoles
	ActionViewAdminDashboard
)

func (a Action) String() string {
	switch a {
	case ActionBookForSelf:
		return "book_for_self"
	case ActionCancelOwnBooking:
		return "cancel_own_booking"
	case ActionCancelAnyBooking:
		return "cancel_any_booking"
	case ActionDecideApproval:
		return "decide_approval"
	case ActionCheckIn:
		return "check_in"
	case ActionViewRoster:
		return "view_roster"
	case ActionManageSchedule:
		return "manage_schedule"
	case ActionManageCatalog:
		return "manage_catalog"
	case ActionManageRoles:
		return "manage_roles"
	case ActionViewAdminDashboard:
		return "view_admin_dashboard"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Can is the only place role permissions are decided.
func (r Role) Can(a Action) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleTrainer:
		switch a {
		case ActionBookForSelf, ActionCancelOwnBooking, ActionCheckIn, ActionViewRoster:
			return true
		default:
			return false
		}
	case RoleUser:
		switch a {
		case ActionBookForSelf, ActionCancelOwnBooking:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// Actor is a verified caller.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Authorize returns an apperr.ErrUnauthorized error when the actor's role
// does not allow a.
func (a Actor) Authorize(action Action) error {
	if !a.Role.Can(action) {
		return fmt.Errorf("%w: role %s cannot %s", apperr.ErrUnauthorized, a.Role, action)
	}
	return nil
}
