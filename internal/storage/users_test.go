package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

func TestUserStore_Add(t *testing.T) {
	ctx := context.Background()
	users := storage.NewUserStore()

	tarzan, err := users.Add(ctx, models.User{Name: "Tarzan", Email: "tarzan@jungle.com", Password: "123456"})
	require.NoError(t, err)

	t.Run("email is unique across all users", func(t *testing.T) {
		_, err := users.Add(ctx, models.User{Name: "Jane", Email: "tarzan@jungle.com"})
		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Equal(t, 1, users.Len())
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, ok := users.GetByEmail("tarzan@jungle.com")
		require.True(t, ok)
		assert.Equal(t, tarzan.ID, got.ID)

		_, ok = users.GetByEmail("jane@jungle.com")
		assert.False(t, ok)
	})
}

func TestUserStore_Profile(t *testing.T) {
	ctx := context.Background()
	users := storage.NewUserStore()

	user, err := users.Add(ctx, models.User{Name: "Tarzan", Email: "tarzan@jungle.com"})
	require.NoError(t, err)

	details := models.CompanyDetails{Name: "Jungle SRL", VATNumber: "RO1", IBAN: "RO49AAAA"}
	updated, err := users.SetCompanyDetails(ctx, user.ID, details)
	require.NoError(t, err)
	require.NotNil(t, updated.CompanyDetails)
	assert.Equal(t, details, *updated.CompanyDetails)

	updated, err = users.SetAvatar(ctx, user.ID, "avatars/tarzan.png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/tarzan.png", updated.Avatar)
	assert.NotNil(t, updated.CompanyDetails, "avatar change keeps company details")

	_, err = users.SetAvatar(ctx, "missing", "x.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserStore_SetCompanyDetailsMerges(t *testing.T) {
	ctx := context.Background()
	users := storage.NewUserStore()

	user, err := users.Add(ctx, models.User{Name: "Tarzan", Email: "tarzan@jungle.com"})
	require.NoError(t, err)

	_, err = users.SetCompanyDetails(ctx, user.ID, models.CompanyDetails{Name: "Jungle SRL", VATNumber: "RO1", IBAN: "RO49AAAA"})
	require.NoError(t, err)

	updated, err := users.SetCompanyDetails(ctx, user.ID, models.CompanyDetails{Address: "Tree 1", IBAN: "RO49BBBB"})
	require.NoError(t, err)
	require.NotNil(t, updated.CompanyDetails)
	assert.Equal(t, models.CompanyDetails{
		Name:      "Jungle SRL",
		VATNumber: "RO1",
		Address:   "Tree 1",
		IBAN:      "RO49BBBB",
	}, *updated.CompanyDetails)
}
