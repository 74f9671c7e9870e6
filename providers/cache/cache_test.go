package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"recipebot.app/planner"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func sampleList() *planner.ShoppingList {
	return &planner.ShoppingList{
		StartDate: "2024-06-01",
		EndDate:   "2024-06-07",
		Items: []planner.ShoppingItem{
			{Name: "carrot", Unit: sptr("pcs"), Quantity: fptr(6)},
		},
		Plans: []planner.PlanSummary{
			{PlanID: 1, PlanDate: "2024-06-01", MealType: "lunch", RecipeName: "Soup", PlannedServings: 3, BaseServings: 2},
		},
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	t.Run("SetAndGet", func(t *testing.T) {
		c.Set(ctx, "k1", []byte("v1"), time.Minute)
		data, found := c.Get(ctx, "k1")
		assert.True(t, found)
		assert.Equal(t, []byte("v1"), data)
	})

	t.Run("ExpiredEntryMisses", func(t *testing.T) {
		c.Set(ctx, "k2", []byte("v2"), -time.Second)
		_, found := c.Get(ctx, "k2")
		assert.False(t, found)
	})

	t.Run("DeleteByPrefix", func(t *testing.T) {
		c.Set(ctx, Key("u1", "2024-06-01", "2024-06-07"), []byte("a"), time.Minute)
		c.Set(ctx, Key("u1", "2024-06-08", "2024-06-14"), []byte("b"), time.Minute)
		c.Set(ctx, Key("u2", "2024-06-01", "2024-06-07"), []byte("c"), time.Minute)

		c.DeleteByPrefix(ctx, UserPrefix("u1"))

		_, found := c.Get(ctx, Key("u1", "2024-06-01", "2024-06-07"))
		assert.False(t, found)
		_, found = c.Get(ctx, Key("u1", "2024-06-08", "2024-06-14"))
		assert.False(t, found)
		_, found = c.Get(ctx, Key("u2", "2024-06-01", "2024-06-07"))
		assert.True(t, found)
	})

	t.Run("NilValueIgnored", func(t *testing.T) {
		c.Set(ctx, "k3", nil, time.Minute)
		_, found := c.Get(ctx, "k3")
		assert.False(t, found)
	})
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedisCache(&RedisCacheConfig{Addr: mr.Addr()})
	require.NoError(t, err)

	t.Run("SetAndGet", func(t *testing.T) {
		c.Set(ctx, "k1", []byte("v1"), time.Minute)
		data, found := c.Get(ctx, "k1")
		assert.True(t, found)
		assert.Equal(t, []byte("v1"), data)
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, found := c.Get(ctx, "absent")
		assert.False(t, found)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		c.Set(ctx, "k2", []byte("v2"), time.Minute)
		mr.FastForward(2 * time.Minute)
		_, found := c.Get(ctx, "k2")
		assert.False(t, found)
	})

	t.Run("DeleteByPrefix", func(t *testing.T) {
		c.Set(ctx, Key("u1", "2024-06-01", "2024-06-07"), []byte("a"), time.Minute)
		c.Set(ctx, Key("u2", "2024-06-01", "2024-06-07"), []byte("b"), time.Minute)

		c.DeleteByPrefix(ctx, UserPrefix("u1"))

		_, found := c.Get(ctx, Key("u1", "2024-06-01", "2024-06-07"))
		assert.False(t, found)
		_, found = c.Get(ctx, Key("u2", "2024-06-01", "2024-06-07"))
		assert.True(t, found)
	})
}

func TestShoppingListCache(t *testing.T) {
	c := NewShoppingListCache(NewMemoryCache())

	t.Run("RoundTrip", func(t *testing.T) {
		key := Key("u1", "2024-06-01", "2024-06-07")
		c.Set(key, sampleList(), time.Minute)

		got, found := c.Get(key)
		require.True(t, found)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "carrot", got.Items[0].Name)
		require.NotNil(t, got.Items[0].Quantity)
		assert.Equal(t, 6.0, *got.Items[0].Quantity)
		require.Len(t, got.Plans, 1)
		assert.Equal(t, "Soup", got.Plans[0].RecipeName)
	})

	t.Run("InvalidateUser", func(t *testing.T) {
		c.Set(Key("u1", "2024-06-01", "2024-06-07"), sampleList(), time.Minute)
		c.Set(Key("u2", "2024-06-01", "2024-06-07"), sampleList(), time.Minute)

		c.InvalidateUser("u1")

		_, found := c.Get(Key("u1", "2024-06-01", "2024-06-07"))
		assert.False(t, found)
		_, found = c.Get(Key("u2", "2024-06-01", "2024-06-07"))
		assert.True(t, found)
	})

	t.Run("NilValueIgnored", func(t *testing.T) {
		c.Set("k", nil, time.Minute)
		_, found := c.Get("k")
		assert.False(t, found)
	})
}
