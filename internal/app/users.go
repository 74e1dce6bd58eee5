package app

import (
	"context"
	"time"

	"campusnest/internal/domain"
)

// UserService covers the admin user dashboard: listing accounts, cascading
// deletes and growth statistics.
type UserService struct {
	users domain.UserRepository
	now   func() time.Time
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

// Delete removes an account together with its bookmarks and reviews; the
// repository recounts affected listings in the same transaction.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.GetUser(ctx, id); err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, id)
}

// GrowthStats compares signups this calendar month against last month.
func (s *UserService) GrowthStats(ctx context.Context) (domain.GrowthStats, error) {
	thisStart, nextStart, lastStart := domain.MonthBounds(s.now())
	thisCount, err := s.users.CountUsersCreatedBetween(ctx, thisStart, nextStart)
	if err != nil {
		return domain.GrowthStats{}, err
	}
	lastCount, err := s.users.CountUsersCreatedBetween(ctx, lastStart, thisStart)
	if err != nil {
		return domain.GrowthStats{}, err
	}
	return domain.NewGrowthStats(thisCount, lastCount), nil
}
