package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cake_shop/internal/models"
)

func TestFetchCakes_Bento(t *testing.T) {
	r := newTestRepo(t)
	fx := seedCatalog(t, r)
	ctx := context.Background()

	require.NoError(t, r.CreateCake(ctx, &models.Cake{Name: "Visible", IsBento: true, IsAvailable: true, CategoryID: &fx.bento.ID}))
	require.NoError(t, r.CreateCake(ctx, &models.Cake{Name: "Hidden", IsBento: true, IsAvailable: false, CategoryID: &fx.bento.ID}))
	require.NoError(t, r.CreateCake(ctx, &models.Cake{Name: "Classic", IsAvailable: true, CategoryID: &fx.classic.ID}))

	svc := &CatalogService{Repo: r}
	cakes, err := svc.FetchCakes(ctx, "bento")
	require.NoError(t, err)
	require.Len(t, cakes, 1)
	assert.Equal(t, "Visible", cakes[0].Name)
	assert.True(t, cakes[0].IsAvailable)
	assert.Empty(t, cakes[0].Variants)
	assert.Equal(t, "bento", cakes[0].CategorySlug)
}

func TestFetchCakes_ClassicVariantsSortedAndFiltered(t *testing.T) {
	r := newTestRepo(t)
	fx := seedCatalog(t, r)
	ctx := context.Background()

	cake := &models.Cake{Name: "Chocolate", IsAvailable: true, CategoryID: &fx.classic.ID}
	require.NoError(t, r.CreateCake(ctx, cake))

	var variants []models.CakeVariant
	for i, size := range fx.sizes {
		variants = append(variants, models.CakeVariant{CakeSizeID: size.ID, PriceRSD: price(int64(1000 * (i + 1))), IsAvailable: true})
	}
	variants = append(variants, models.CakeVariant{CakeSizeID: fx.sizes[1].ID, PriceRSD: price(1), IsAvailable: false})
	require.NoError(t, r.ReplaceCakeVariants(ctx, cake.ID, variants))

	svc := &CatalogService{Repo: r}
	cakes, err := svc.FetchCakes(ctx, "classic")
	require.NoError(t, err)
	require.Len(t, cakes, 1)

	got := cakes[0].Variants
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].SortOrder, got[1].SortOrder, got[2].SortOrder})
	for _, v := range got {
		assert.True(t, v.IsAvailable)
	}
	assert.Equal(t, "S", got[0].SizeCode)
}

func TestFetchCakes_NewestFirst(t *testing.T) {
	r := newTestRepo(t)
	fx := seedCatalog(t, r)
	ctx := context.Background()

	older := &models.Cake{Name: "Older", IsBento: true, IsAvailable: true, CategoryID: &fx.bento.ID}
	require.NoError(t, r.CreateCake(ctx, older))
	require.NoError(t, r.DB.Model(older).Update("created_at", older.CreatedAt.AddDate(0, 0, -1)).Error)
	require.NoError(t, r.CreateCake(ctx, &models.Cake{Name: "Newer", IsBento: true, IsAvailable: true, CategoryID: &fx.bento.ID}))

	cakes, err := (&CatalogService{Repo: r}).FetchCakes(ctx, "bento")
	require.NoError(t, err)
	require.Len(t, cakes, 2)
	assert.Equal(t, "Newer", cakes[0].Name)
}

func TestFetchCakes_CategoryEdgeCases(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	svc := &CatalogService{Repo: r}

	_, err := svc.FetchCakes(ctx, "vegan")
	assert.ErrorIs(t, err, ErrValidation)

	cakes, err := svc.FetchCakes(ctx, "classic")
	require.NoError(t, err)
	assert.NotNil(t, cakes)
	assert.Empty(t, cakes)
}

func TestGetCake(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	svc := &CatalogService{Repo: r}

	hidden := &models.Cake{Name: "Hidden", IsAvailable: false}
	require.NoError(t, r.CreateCake(ctx, hidden))

	_, err := svc.GetCake(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetCake(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchCakes(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a := &models.Cake{Name: "Chocolate dream", IsAvailable: true}
	b := &models.Cake{Name: "Chocolate bento", IsBento: true, IsAvailable: true}
	require.NoError(t, r.CreateCake(ctx, a))
	require.NoError(t, r.CreateCake(ctx, b))

	total, cakes, err := (&CatalogService{Repo: r}).SearchCakes(ctx, "chocolate", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, cakes, 2)

	idx := newFakeIndex()
	idx.hits = []uuid.UUID{b.ID, uuid.New(), a.ID}
	total, cakes, err = (&CatalogService{Repo: r, Index: idx}).SearchCakes(ctx, "chocolate", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, cakes, 2)
	assert.Equal(t, b.ID, cakes[0].ID)
	assert.Equal(t, a.ID, cakes[1].ID)

	total, cakes, err = (&CatalogService{Repo: r}).SearchCakes(ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, cakes)
}

func TestReconcileTotal(t *testing.T) {
	cases := []struct {
		name               string
		total              int64
		offset, hits, kept int
		want               int64
	}{
		{"all kept", 12, 0, 10, 10, 12},
		{"two dropped", 12, 0, 10, 8, 10},
		{"never below what was served", 3, 10, 3, 0, 10},
		{"empty page", 0, 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reconcileTotal(tc.total, tc.offset, tc.hits, tc.kept))
		})
	}
}
