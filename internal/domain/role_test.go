package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  *string
		want Role
	}{
		{name: "nil", raw: nil, want: RoleUser},
		{name: "admin", raw: strptr("admin"), want: RoleAdmin},
		{name: "admin mixed case", raw: strptr(" Admin "), want: RoleAdmin},
		{name: "guest", raw: strptr("guest"), want: RoleGuest},
		{name: "user", raw: strptr("user"), want: RoleUser},
		{name: "unknown", raw: strptr("superuser"), want: RoleUser},
		{name: "empty", raw: strptr(""), want: RoleUser},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseRole(tt.raw))
		})
	}
}

func TestViews(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []View{ViewAuth}, Views(StateUndecided, RoleAdmin))
	assert.True(t, CanReach(StateGuest, RoleGuest, ViewCheckout))
	assert.True(t, CanReach(StateGuest, RoleGuest, ViewAuth))
	assert.False(t, CanReach(StateAuthenticated, RoleUser, ViewAuth))
	assert.False(t, CanReach(StateAuthenticated, RoleUser, ViewAdminMenu))
	assert.True(t, CanReach(StateAuthenticated, RoleAdmin, ViewAdminOrder))
	assert.True(t, CanReach(StateAuthenticated, RoleAdmin, ViewProfile))
	assert.False(t, CanReach(StateAuthenticated, RoleAdmin, ViewCart))
}

func TestViews_ReturnsCopy(t *testing.T) {
	t.Parallel()

	v := Views(StateAuthenticated, RoleUser)
	v[0] = ViewAdminMenu
	assert.False(t, CanReach(StateAuthenticated, RoleUser, ViewAdminMenu))
}
