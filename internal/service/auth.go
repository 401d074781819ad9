package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cake_shop/internal/events"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/internal/repo"
	"github.com/Skotchmaster/cake_shop/internal/session"
	pkghash "github.com/Skotchmaster/cake_shop/pkg/hash"
	jwthelp "github.com/Skotchmaster/cake_shop/pkg/jwt"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
	"github.com/Skotchmaster/cake_shop/pkg/tokens"
	"github.com/Skotchmaster/cake_shop/pkg/validate"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour

	minPasswordLen = 6
)

type SessionListener interface {
	HandleSessionChange(ctx context.Context, ev session.Event)
}

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        EventPublisher
	Listeners     []SessionListener
}

type LoginResult struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("invalid email: %w", ErrValidation)
	}
	return email, nil
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_up")

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("sign_up_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: pwHash}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("sign_up_failed", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("email taken: %w", ErrConflict)
		}
		l.Error("sign_up_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_registered", user.ID, nil)
	l.Info("sign_up_success", "user_id", user.ID.String())
	return user, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password, device string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_in")

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("sign_in_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("sign_in_failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) {
		l.Warn("sign_in_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	res, row, err := s.issue(user)
	if err != nil {
		l.Error("sign_in_failed", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, row); err != nil {
		l.Error("sign_in_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	s.notify(ctx, session.Event{Kind: session.SignedIn, Device: device, UserID: user.ID})
	s.publish(ctx, "user_logged_in", user.ID, nil)
	l.Info("sign_in_success", "user_id", user.ID.String())
	return res, nil
}

// Refresh rotates the refresh token. A reused or revoked token is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	res, row, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, row); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "token revoked or unknown", "user_id", userID.String())
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}
	return res, nil
}

// SignOut revokes the refresh token if one is given. It always notifies listeners.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string, userID *uuid.UUID, device string) error {
	var err error
	if refreshToken != "" {
		err = s.Repo.RevokeRefreshToken(ctx, refreshToken)
	}
	ev := session.Event{Kind: session.SignedOut, Device: device}
	if userID != nil {
		ev.UserID = *userID
		s.publish(ctx, "user_logged_out", *userID, nil)
	}
	s.notify(ctx, ev)
	return err
}

func (s *AuthService) issue(user *models.User) (*LoginResult, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(accessTTL)
	refreshExp := now.Add(refreshTTL)
	jti := jwthelp.NewJTI()

	access, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), user.Email, accessExp)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := tokens.NewRefreshToken(s.RefreshSecret, user.ID.String(), jti, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	row := &models.RefreshToken{
		UserID:    user.ID,
		Token:     jwthelp.Sha256Hex(refresh),
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &LoginResult{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, row, nil
}

func (s *AuthService) notify(ctx context.Context, ev session.Event) {
	for _, ln := range s.Listeners {
		ln.HandleSessionChange(ctx, ev)
	}
}

func (s *AuthService) publish(ctx context.Context, kind string, userID uuid.UUID, extra map[string]any) {
	if s.Events == nil {
		return
	}
	ev := map[string]any{"type": kind, "userID": userID.String()}
	for k, v := range extra {
		ev[k] = v
	}
	if err := s.Events.Publish(ctx, events.TopicUsers, userID.String(), ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "event", kind, "error", err)
	}
}
