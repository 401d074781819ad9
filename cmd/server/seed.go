package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/cake_shop/internal/repo"
)

var (
	seedCategories = []struct{ name, slug string }{
		{"Classic", "classic"},
		{"Bento", "bento"},
	}
	seedSizes = []struct {
		name, code string
		order      int
	}{
		{"Small", "S", 1},
		{"Medium", "M", 2},
		{"Large", "L", 3},
	}
)

func newSeedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the fixed categories and cake sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			return seed(cmd.Context(), &repo.GormRepo{DB: a.db})
		},
	}
}

// seed is idempotent; existing rows are left as they are.
func seed(ctx context.Context, r *repo.GormRepo) error {
	return r.Transaction(ctx, func(ctx context.Context) error {
		for _, c := range seedCategories {
			if _, err := r.EnsureCategory(ctx, c.name, c.slug); err != nil {
				return fmt.Errorf("seed category %s: %w", c.slug, err)
			}
		}
		for _, s := range seedSizes {
			if _, err := r.EnsureCakeSize(ctx, s.name, s.code, s.order); err != nil {
				return fmt.Errorf("seed size %s: %w", s.code, err)
			}
		}
		return nil
	})
}
