package app

import (
	"context"
	"fmt"
	"time"

	"campusnest/internal/domain"
)

const (
	MaxImagesPerListing = 5

	activeListingsKey = "listings:active"
	allListingsKey    = "listings:all"
)

func listingKey(id int64) string { return fmt.Sprintf("listing:%d", id) }

// ListingService owns admin CRUD on listings and the cached read side.
type ListingService struct {
	listings domain.ListingRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewListingService(listings domain.ListingRepository, cache domain.Cache, ttl time.Duration) *ListingService {
	return &ListingService{listings: listings, cache: cache, cacheTTL: ttl, now: time.Now}
}

// Create validates and persists a new listing owned by the calling admin.
// Conflicts: same title at the same address, or another listing within
// ~100m of the coordinates.
func (s *ListingService) Create(ctx context.Context, p domain.Principal, l domain.Listing) (domain.Listing, error) {
	l.CreatedBy = p.ID
	l.IsActive = true
	if err := domain.ValidateListing(l); err != nil {
		return domain.Listing{}, err
	}
	if err := validateImages(l.Images); err != nil {
		return domain.Listing{}, err
	}

	if exists, err := s.listings.TitleAddressExists(ctx, l.Title, l.Address); err != nil {
		return domain.Listing{}, err
	} else if exists {
		return domain.Listing{}, domain.Conflict("A listing with this title and address already exists")
	}
	if exists, err := s.listings.LocationExists(ctx, l.Latitude, l.Longitude, domain.GeoDuplicateDelta); err != nil {
		return domain.Listing{}, err
	} else if exists {
		return domain.Listing{}, domain.Conflict("A listing already exists at or very near this location")
	}

	if err := s.listings.CreateListing(ctx, &l); err != nil {
		return domain.Listing{}, err
	}
	s.invalidateLists(ctx)
	return l, nil
}

// ListingUpdate is a partial admin edit; nil fields are left untouched.
// A non-nil Images slice replaces the stored image set wholesale.
type ListingUpdate struct {
	Title         *string
	Description   *string
	Category      *string
	ProviderName  *string
	ProviderPhone *string
	ProviderEmail *string
	Address       *string
	Price         *float64
	City          *string
	State         *string
	Latitude      *float64
	Longitude     *float64
	Amenities     []string
	Availability  *bool
	Images        []string
}

func (s *ListingService) Update(ctx context.Context, id int64, upd ListingUpdate) (domain.Listing, error) {
	l, err := s.listings.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	applyListingUpdate(&l, upd)
	if err := domain.ValidateListing(l); err != nil {
		return domain.Listing{}, err
	}
	if upd.Images != nil {
		if err := validateImages(upd.Images); err != nil {
			return domain.Listing{}, err
		}
		l.Images = upd.Images
	} else {
		// nil signals "keep stored images" to the repository.
		l.Images = nil
	}
	if err := s.listings.UpdateListing(ctx, l); err != nil {
		return domain.Listing{}, err
	}
	s.invalidate(ctx, id)
	return s.listings.GetListing(ctx, id)
}

func (s *ListingService) Delete(ctx context.Context, id int64) error {
	if _, err := s.listings.GetListing(ctx, id); err != nil {
		return err
	}
	if err := s.listings.DeleteListing(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ToggleAvailability flips the availability flag and returns the new value.
func (s *ListingService) ToggleAvailability(ctx context.Context, id int64) (bool, error) {
	l, err := s.listings.GetListing(ctx, id)
	if err != nil {
		return false, err
	}
	next := !l.Availability
	if err := s.listings.SetAvailability(ctx, id, next); err != nil {
		return false, err
	}
	s.invalidate(ctx, id)
	return next, nil
}

// Get serves a single listing through the cache.
func (s *ListingService) Get(ctx context.Context, id int64) (domain.Listing, error) {
	key := listingKey(id)
	var l domain.Listing
	if ok, _ := s.cache.Get(ctx, key, &l); ok {
		return l, nil
	}
	l, err := s.listings.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	_ = s.cache.Set(ctx, key, l, int(s.cacheTTL.Seconds()))
	return l, nil
}

// ListActive serves the public catalog (active listings only) through the
// cache.
func (s *ListingService) ListActive(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	if ok, _ := s.cache.Get(ctx, activeListingsKey, &out); ok {
		return out, nil
	}
	out, err := s.listings.ListListings(ctx, true)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, activeListingsKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// ListAll is the admin view, inactive listings included; not cached.
func (s *ListingService) ListAll(ctx context.Context) ([]domain.Listing, error) {
	return s.listings.ListListings(ctx, false)
}

// GrowthStats compares listings created this calendar month against last
// month.
func (s *ListingService) GrowthStats(ctx context.Context) (domain.GrowthStats, error) {
	thisStart, nextStart, lastStart := domain.MonthBounds(s.now())
	thisCount, err := s.listings.CountListingsCreatedBetween(ctx, thisStart, nextStart)
	if err != nil {
		return domain.GrowthStats{}, err
	}
	lastCount, err := s.listings.CountListingsCreatedBetween(ctx, lastStart, thisStart)
	if err != nil {
		return domain.GrowthStats{}, err
	}
	return domain.NewGrowthStats(thisCount, lastCount), nil
}

// invalidate drops the cached entry for one listing plus the list views.
func (s *ListingService) invalidate(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, listingKey(id))
	s.invalidateLists(ctx)
}

func (s *ListingService) invalidateLists(ctx context.Context) {
	_ = s.cache.Del(ctx, activeListingsKey)
	_ = s.cache.Del(ctx, allListingsKey)
}

func applyListingUpdate(l *domain.Listing, upd ListingUpdate) {
	if upd.Title != nil {
		l.Title = *upd.Title
	}
	if upd.Description != nil {
		l.Description = *upd.Description
	}
	if upd.Category != nil {
		l.Category = *upd.Category
	}
	if upd.ProviderName != nil {
		l.ProviderName = *upd.ProviderName
	}
	if upd.ProviderPhone != nil {
		l.ProviderPhone = *upd.ProviderPhone
	}
	if upd.ProviderEmail != nil {
		l.ProviderEmail = *upd.ProviderEmail
	}
	if upd.Address != nil {
		l.Address = *upd.Address
	}
	if upd.Price != nil {
		l.Price = *upd.Price
	}
	if upd.City != nil {
		l.City = *upd.City
	}
	if upd.State != nil {
		l.State = *upd.State
	}
	if upd.Latitude != nil {
		l.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		l.Longitude = *upd.Longitude
	}
	if upd.Amenities != nil {
		l.Amenities = upd.Amenities
	}
	if upd.Availability != nil {
		l.Availability = *upd.Availability
	}
}

func validateImages(images []string) error {
	if len(images) == 0 {
		return domain.Invalid("images", "At least one image is required")
	}
	if len(images) > MaxImagesPerListing {
		return domain.Invalid("images", fmt.Sprintf("Maximum %d images are allowed", MaxImagesPerListing))
	}
	for _, img := range images {
		if img == "" {
			return domain.Invalid("images", "Empty or invalid image provided")
		}
	}
	return nil
}
