package domain

import "strings"

type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored profile role. Anything unrecognised becomes user so
// a bad row can never grant admin.
func ParseRole(raw *string) Role {
	if raw == nil {
		return RoleUser
	}
	switch Role(strings.ToLower(strings.TrimSpace(*raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleGuest:
		return RoleGuest
	default:
		return RoleUser
	}
}

type SessionState string

const (
	StateUndecided     SessionState = "undecided"
	StateGuest         SessionState = "guest"
	StateAuthenticated SessionState = "authenticated"
)

type View string

const (
	ViewAuth       View = "auth"
	ViewExplore    View = "explore"
	ViewCatalog    View = "catalog"
	ViewCakeDetail View = "cake_detail"
	ViewCart       View = "cart"
	ViewCheckout   View = "checkout"
	ViewProfile    View = "profile"
	ViewAdminMenu  View = "admin_menu"
	ViewAdminOrder View = "admin_orders"
)

var shopperViews = []View{ViewExplore, ViewCatalog, ViewCakeDetail, ViewCart, ViewCheckout, ViewProfile}

var capabilities = map[Role][]View{
	RoleGuest: append([]View{ViewAuth}, shopperViews...),
	RoleUser:  shopperViews,
	RoleAdmin: {ViewAdminMenu, ViewAdminOrder, ViewProfile},
}

var undecidedViews = []View{ViewAuth}

// Views returns the reachable views for a resolved session. The slice is a copy.
func Views(state SessionState, role Role) []View {
	src := undecidedViews
	if state != StateUndecided {
		src = capabilities[role]
	}
	out := make([]View, len(src))
	copy(out, src)
	return out
}

func CanReach(state SessionState, role Role, v View) bool {
	for _, have := range Views(state, role) {
		if have == v {
			return true
		}
	}
	return false
}
