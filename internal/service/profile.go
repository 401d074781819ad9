package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/internal/repo"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type Profile struct {
	ID        uuid.UUID   `json:"id"`
	Role      domain.Role `json:"role"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
}

type ProfileService struct {
	Repo *repo.GormRepo
}

// GetProfile never fails on a missing row or lookup error; it returns defaults.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) Profile {
	out := Profile{ID: userID, Role: domain.RoleUser}

	p, err := s.Repo.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.FromContext(ctx).Warn("get_profile_failed", "svc", "profile.get", "error", err)
		}
		return out
	}
	out.Role = domain.ParseRole(p.Role)
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	return out
}

func (s *ProfileService) UpsertProfile(ctx context.Context, userID uuid.UUID, firstName, lastName *string) (Profile, error) {
	if userID == uuid.Nil {
		return Profile{}, fmt.Errorf("user id required: %w", ErrValidation)
	}
	row := &models.Profile{
		ID:        userID,
		FirstName: blankToNil(firstName),
		LastName:  blankToNil(lastName),
	}
	if err := s.Repo.UpsertProfile(ctx, row); err != nil {
		logging.FromContext(ctx).Error("upsert_profile_failed", "svc", "profile.upsert", "error", err)
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return s.GetProfile(ctx, userID), nil
}
