package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cake_shop/internal/events"
	"github.com/Skotchmaster/cake_shop/internal/session"
	"github.com/Skotchmaster/cake_shop/pkg/tokens"
)

type recordingListener struct {
	mu     sync.Mutex
	events []session.Event
}

func (r *recordingListener) HandleSessionChange(_ context.Context, ev session.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func newAuth(t *testing.T) (*AuthService, *recordingListener, *recordingPublisher) {
	t.Helper()
	ln := &recordingListener{}
	pub := &recordingPublisher{}
	return &AuthService{
		Repo:          newTestRepo(t),
		JWTSecret:     []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		Events:        pub,
		Listeners:     []SessionListener{ln},
	}, ln, pub
}

func TestSignUp(t *testing.T) {
	svc, _, pub := newAuth(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "  Ana@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = svc.SignUp(ctx, "ana@example.com", "another1")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.SignUp(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SignUp(ctx, "bob@example.com", "123")
	assert.ErrorIs(t, err, ErrValidation)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TopicUsers, pub.events[0].Topic)
}

func TestSignIn(t *testing.T) {
	svc, ln, _ := newAuth(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "ana@example.com", "wrong-pass", "dev-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1", "dev-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, ln.events)

	res, err := svc.SignIn(ctx, "ANA@example.com", "secret1", "dev-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)

	require.Len(t, ln.events, 1)
	assert.Equal(t, session.SignedIn, ln.events[0].Kind)
	assert.Equal(t, "dev-1", ln.events[0].Device)
	assert.Equal(t, u.ID, ln.events[0].UserID)
}

func TestRefresh_RotatesAndRejectsReuse(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	first, err := svc.SignIn(ctx, "ana@example.com", "secret1", "")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, second.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestSignOut_RevokesAndNotifies(t *testing.T) {
	svc, ln, pub := newAuth(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	res, err := svc.SignIn(ctx, "ana@example.com", "secret1", "dev-1")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, res.RefreshToken, &u.ID, "dev-1"))

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	require.Len(t, ln.events, 2)
	assert.Equal(t, session.SignedOut, ln.events[1].Kind)
	assert.Equal(t, []string{"user_registered", "user_logged_in", "user_logged_out"}, pub.types())
}

func TestSignOut_WithoutTokenStillNotifies(t *testing.T) {
	svc, ln, pub := newAuth(t)

	require.NoError(t, svc.SignOut(context.Background(), "", nil, "dev-2"))
	require.Len(t, ln.events, 1)
	assert.Equal(t, "dev-2", ln.events[0].Device)
	assert.Equal(t, uuid.Nil, ln.events[0].UserID)
	assert.Empty(t, pub.types())
}

func TestSignIn_ClearsGuestFlag(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()

	flags := session.NewMemoryFlagStore()
	resolver := &session.Resolver{Flags: flags, Profiles: svc.Repo}
	svc.Listeners = []SessionListener{resolver}

	require.NoError(t, resolver.ChooseGuest(ctx, "dev-9"))
	assert.Equal(t, "guest", string(resolver.Resolve(ctx, "dev-9", nil).State))

	_, err := svc.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	res, err := svc.SignIn(ctx, "ana@example.com", "secret1", "dev-9")
	require.NoError(t, err)

	got := resolver.Resolve(ctx, "dev-9", &session.Session{UserID: res.UserID, Email: res.Email})
	assert.Equal(t, "authenticated", string(got.State))
	assert.Equal(t, "user", string(got.Role))
}
