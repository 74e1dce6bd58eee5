package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusnest/internal/app"
	"campusnest/internal/domain"
)

func TestUserGrowthStats(t *testing.T) {
	users := newMemUsers()
	svc := app.NewUserService(users)
	ctx := context.Background()

	thisStart, _, lastStart := domain.MonthBounds(time.Now())

	seed := []struct {
		email     string
		thisMonth bool
	}{
		{"a@example.com", true},
		{"b@example.com", true},
		{"c@example.com", false},
	}
	for i, s := range seed {
		u := domain.User{FullName: "Seed User", Email: s.email, Role: domain.RoleUser, Phone: "9876543210"}
		require.NoError(t, users.CreateUser(ctx, &u))
		created := lastStart.Add(time.Hour)
		if s.thisMonth {
			created = thisStart.Add(time.Duration(i) * time.Hour)
		}
		users.mu.Lock()
		users.users[u.ID].CreatedAt = created
		users.mu.Unlock()
	}

	stats, err := svc.GrowthStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ThisMonth)
	assert.Equal(t, 1, stats.LastMonth)
	assert.Equal(t, 100.0, stats.Growth)
	assert.True(t, stats.IsPositive)
}

func TestUserDelete(t *testing.T) {
	users := newMemUsers()
	svc := app.NewUserService(users)
	ctx := context.Background()

	u := domain.User{FullName: "Asha Verma", Email: "asha@example.com", Role: domain.RoleUser, Phone: "9876543210"}
	require.NoError(t, users.CreateUser(ctx, &u))

	assert.ErrorIs(t, svc.Delete(ctx, 999), domain.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err := svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
