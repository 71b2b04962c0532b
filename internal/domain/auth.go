package domain

// Actor is the authenticated account on whose behalf an operation runs.
type Actor struct {
	AccountID string
	Role      Role
	Approved  bool
}

// ActorFor builds an Actor from a loaded account.
func ActorFor(account *Account) Actor {
	return Actor{AccountID: account.ID, Role: account.Role, Approved: account.Approved}
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdministrator
}

// Landing names the context an account is routed to after login.
type Landing string

const (
	LandingAdminDashboard Landing = "admin_dashboard"
	LandingBooking        Landing = "booking"
)

// LandingFor routes administrators to the dashboard and everyone else to booking.
func LandingFor(role Role) Landing {
	if role == RoleAdministrator {
		return LandingAdminDashboard
	}
	return LandingBooking
}
