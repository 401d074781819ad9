package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/repo"
)

func newGrantAdminCmd(envFile *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Give an existing user the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if err := grantAdmin(cmd.Context(), &repo.GormRepo{DB: a.db}, email); err != nil {
				return err
			}
			a.logger.Info("admin_granted", "email", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the account to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func grantAdmin(ctx context.Context, r *repo.GormRepo, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := r.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no user with email %q", email)
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := r.SetProfileRole(ctx, user.ID, string(domain.RoleAdmin)); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}
