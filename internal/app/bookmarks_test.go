package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusnest/internal/app"
	"campusnest/internal/domain"
)

func newBookmarkFixture() (*app.BookmarkService, *memListings, domain.Listing) {
	listings := newMemListings()
	bookmarks := newMemBookmarks(listings)
	l := validListing("Green View PG")
	l.CreatedBy = 1
	l = listings.add(l)
	return app.NewBookmarkService(bookmarks, listings), listings, l
}

func TestCreateBookmark(t *testing.T) {
	svc, _, l := newBookmarkFixture()
	user := domain.Principal{ID: 7, Role: domain.RoleUser}
	ctx := context.Background()

	b, err := svc.Create(ctx, user, l.ID)
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	_, err = svc.Create(ctx, user, l.ID)
	assert.True(t, domain.IsConflict(err))
}

func TestCreateBookmark_Denied(t *testing.T) {
	svc, listings, l := newBookmarkFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Principal{ID: 2, Role: domain.RoleAdmin}, l.ID)
	assert.True(t, domain.IsPermission(err))

	_, err = svc.Create(ctx, domain.Principal{ID: 1, Role: domain.RoleUser}, l.ID)
	assert.True(t, domain.IsPermission(err))

	inactive := validListing("Closed Hostel")
	inactive.IsActive = false
	inactive = listings.add(inactive)
	_, err = svc.Create(ctx, domain.Principal{ID: 7, Role: domain.RoleUser}, inactive.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Create(ctx, domain.Principal{ID: 7, Role: domain.RoleUser}, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleBookmark(t *testing.T) {
	svc, _, l := newBookmarkFixture()
	user := domain.Principal{ID: 7, Role: domain.RoleUser}
	ctx := context.Background()

	on, b, err := svc.Toggle(ctx, user, l.ID)
	require.NoError(t, err)
	assert.True(t, on)
	assert.NotZero(t, b.ID)

	on, _, err = svc.Toggle(ctx, user, l.ID)
	require.NoError(t, err)
	assert.False(t, on)

	n, err := svc.Count(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRemoveBookmark_OwnerOnly(t *testing.T) {
	svc, _, l := newBookmarkFixture()
	owner := domain.Principal{ID: 7, Role: domain.RoleUser}
	ctx := context.Background()

	b, err := svc.Create(ctx, owner, l.ID)
	require.NoError(t, err)

	err = svc.Remove(ctx, domain.Principal{ID: 8, Role: domain.RoleUser}, b.ID)
	assert.True(t, domain.IsPermission(err))

	require.NoError(t, svc.Remove(ctx, owner, b.ID))
	assert.ErrorIs(t, svc.Remove(ctx, owner, b.ID), domain.ErrNotFound)
}

func TestListBookmarks_ScopedToCaller(t *testing.T) {
	svc, listings, l := newBookmarkFixture()
	ctx := context.Background()

	other := validListing("Blue Hills Hostel")
	other.Address = "99 FC Road"
	other.Latitude = 19.0
	other = listings.add(other)

	_, err := svc.Create(ctx, domain.Principal{ID: 7, Role: domain.RoleUser}, l.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Principal{ID: 8, Role: domain.RoleUser}, other.ID)
	require.NoError(t, err)

	out, err := svc.List(ctx, domain.Principal{ID: 7, Role: domain.RoleUser}, domain.BookmarkQuery{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Green View PG", out[0].ListingTitle)

	// Admin sees everything.
	out, err = svc.List(ctx, domain.Principal{ID: 2, Role: domain.RoleAdmin}, domain.BookmarkQuery{})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
