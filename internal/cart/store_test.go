package cart

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bento(price int64) Item {
	id := uuid.New()
	return Item{Key: BentoKey(id), CakeID: id, CakeName: "Bento", UnitPriceRSD: decimal.NewFromInt(price)}
}

func TestAddItem_MergesByKey(t *testing.T) {
	t.Parallel()

	s := NewStore()
	it := bento(900)
	it.Qty = 42

	for i := 0; i < 5; i++ {
		s.AddItem(it)
	}

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Qty)
}

func TestAddItem_DistinctKeys(t *testing.T) {
	t.Parallel()

	s := NewStore()
	cakeID := uuid.New()
	small, large := uuid.New(), uuid.New()
	s.AddItem(Item{Key: VariantKey(cakeID, small), CakeID: cakeID})
	s.AddItem(Item{Key: VariantKey(cakeID, large), CakeID: cakeID})
	s.AddItem(Item{Key: BentoKey(cakeID), CakeID: cakeID})

	assert.Equal(t, 3, s.Count())
}

func TestSetQty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		qty     int
		wantLen int
		wantQty int
	}{
		{name: "zero removes", qty: 0, wantLen: 0},
		{name: "negative removes", qty: -1, wantLen: 0},
		{name: "positive sets exactly", qty: 7, wantLen: 1, wantQty: 7},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewStore()
			it := bento(100)
			s.AddItem(it)
			s.AddItem(it)

			assert.True(t, s.SetQty(it.Key, tt.qty))
			items := s.Items()
			require.Len(t, items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantQty, items[0].Qty)
			}
		})
	}
}

func TestSetQty_UnknownKey(t *testing.T) {
	t.Parallel()

	s := NewStore()
	assert.False(t, s.SetQty("bento:nope", 3))
	assert.Zero(t, s.Count())
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a, b := bento(100), bento(200)
	s.AddItem(a)
	s.AddItem(b)

	s.RemoveItem("missing")
	assert.Equal(t, 2, s.Count())

	s.RemoveItem(a.Key)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.Key, items[0].Key)

	s.Clear()
	assert.Zero(t, s.Count())
	assert.True(t, s.Total().IsZero())
}

func TestTotal(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a, b := bento(1500), bento(900)
	s.AddItem(a)
	s.AddItem(a)
	s.AddItem(b)

	assert.True(t, s.Total().Equal(decimal.NewFromInt(3900)), s.Total().String())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	s := NewStore()
	it := bento(10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(it)
		}()
	}
	wg.Wait()

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Qty)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	owner := DeviceOwner("dev-1")
	r.For(owner).AddItem(bento(1))

	assert.Equal(t, 1, r.For(owner).Count())
	assert.Zero(t, r.For(UserOwner(uuid.New())).Count())
	assert.Same(t, r.For(owner), r.For(owner))
}

func TestRemoveLines_KeepsWhatWasAddedSince(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a, b := bento(1500), bento(900)
	s.AddItem(a)
	s.AddItem(a)
	ordered := s.Items()

	s.AddItem(a)
	s.AddItem(b)
	s.RemoveLines(ordered)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, a.Key, items[0].Key)
	assert.Equal(t, 1, items[0].Qty)
	assert.Equal(t, b.Key, items[1].Key)

	s.RemoveLines([]Item{{Key: a.Key, Qty: 5}, {Key: "missing", Qty: 1}})
	items = s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.Key, items[0].Key)
}
