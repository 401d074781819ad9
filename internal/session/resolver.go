package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

var ErrNoDevice = errors.New("device id required")

type ProfileLookup interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Session is an authenticated identity taken from a verified access token.
type Session struct {
	UserID uuid.UUID
	Email  string
}

type Resolution struct {
	State  domain.SessionState `json:"state"`
	Role   domain.Role         `json:"role,omitempty"`
	UserID *uuid.UUID          `json:"user_id,omitempty"`
	Email  string              `json:"email,omitempty"`
	Views  []domain.View       `json:"views"`
}

func (r Resolution) CanReach(v domain.View) bool {
	return domain.CanReach(r.State, r.Role, v)
}

type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
)

type Event struct {
	Kind   EventKind
	Device string
	UserID uuid.UUID
}

type Resolver struct {
	Flags    FlagStore
	Profiles ProfileLookup
}

// Resolve never fails. Flag and profile errors are logged and degrade to the
// least privileged answer that still lets the client move on.
func (r *Resolver) Resolve(ctx context.Context, device string, sess *Session) Resolution {
	l := logging.FromContext(ctx).With("component", "session.resolve")

	if device != "" {
		guest, err := r.Flags.Get(ctx, guestKey(device))
		if err != nil {
			l.Warn("guest_flag_read_failed", "reason", "flag store error", "error", err)
		}
		if guest {
			return resolution(domain.StateGuest, domain.RoleGuest, nil, "")
		}
	}

	if sess == nil {
		return resolution(domain.StateUndecided, "", nil, "")
	}

	uid := sess.UserID
	return resolution(domain.StateAuthenticated, r.lookupRole(ctx, uid), &uid, sess.Email)
}

func (r *Resolver) lookupRole(ctx context.Context, userID uuid.UUID) domain.Role {
	l := logging.FromContext(ctx).With("component", "session.resolve", "user_id", userID.String())

	p, err := r.Profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("profile_lookup_failed", "reason", "falling back to user", "error", err)
		}
		return domain.RoleUser
	}
	if p == nil {
		return domain.RoleUser
	}
	return domain.ParseRole(p.Role)
}

func (r *Resolver) ChooseGuest(ctx context.Context, device string) error {
	if device == "" {
		return ErrNoDevice
	}
	if err := r.Flags.Set(ctx, guestKey(device)); err != nil {
		return fmt.Errorf("persist guest flag: %w", err)
	}
	return nil
}

// HandleSessionChange clears the guest flag whenever the device signs in or out.
func (r *Resolver) HandleSessionChange(ctx context.Context, ev Event) {
	if ev.Device == "" {
		return
	}
	if err := r.Flags.Remove(ctx, guestKey(ev.Device)); err != nil {
		logging.FromContext(ctx).Warn("guest_flag_clear_failed",
			"component", "session.change", "event", string(ev.Kind), "error", err)
	}
}

func resolution(state domain.SessionState, role domain.Role, uid *uuid.UUID, email string) Resolution {
	return Resolution{
		State:  state,
		Role:   role,
		UserID: uid,
		Email:  email,
		Views:  domain.Views(state, role),
	}
}
