package app_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"campusnest/internal/domain"
)

// In-memory fakes for the domain ports. They mirror the storage contract:
// duplicate keys yield ConflictError, absent rows yield ErrNotFound, and
// review create/delete recounts the listing.

func ptr[T any](v T) *T { return &v }

type memUsers struct {
	mu          sync.Mutex
	seq         int64
	users       map[int64]*domain.User
	verifyCalls int
}

func newMemUsers() *memUsers { return &memUsers{users: map[int64]*domain.User{}} }

func (m *memUsers) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return domain.Conflict("Email already exists")
		}
	}
	m.seq++
	u.ID = m.seq
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetUser(_ context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return *u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memUsers) SaveProfile(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ex, ok := m.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	ex.FullName = u.FullName
	ex.Phone = u.Phone
	ex.Profile = u.Profile
	return nil
}

func (m *memUsers) SetVerified(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsVerified = true
	m.verifyCalls++
	return nil
}

func (m *memUsers) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) CountUsersCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if !u.CreatedAt.Before(from) && u.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type memListings struct {
	mu       sync.Mutex
	seq      int64
	listings map[int64]*domain.Listing
}

func newMemListings() *memListings { return &memListings{listings: map[int64]*domain.Listing{}} }

func (m *memListings) add(l domain.Listing) domain.Listing {
	_ = m.CreateListing(context.Background(), &l)
	return l
}

func (m *memListings) CreateListing(_ context.Context, l *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.ID = m.seq
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memListings) UpdateListing(_ context.Context, l domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ex, ok := m.listings[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	images := ex.Images
	if l.Images != nil {
		images = l.Images
	}
	cp := l
	cp.Images = images
	cp.ReviewCount = ex.ReviewCount
	m.listings[l.ID] = &cp
	return nil
}

func (m *memListings) DeleteListing(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.listings, id)
	return nil
}

func (m *memListings) SetAvailability(_ context.Context, id int64, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Availability = available
	return nil
}

func (m *memListings) GetListing(_ context.Context, id int64) (domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	return *l, nil
}

func (m *memListings) ListListings(_ context.Context, activeOnly bool) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Listing
	for _, l := range m.listings {
		if activeOnly && !l.IsActive {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memListings) TitleAddressExists(_ context.Context, title, address string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if strings.EqualFold(l.Title, title) && strings.EqualFold(l.Address, address) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memListings) LocationExists(_ context.Context, lat, lon, delta float64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if l.Latitude >= lat-delta && l.Latitude <= lat+delta &&
			l.Longitude >= lon-delta && l.Longitude <= lon+delta {
			return true, nil
		}
	}
	return false, nil
}

func (m *memListings) CountListingsCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.listings {
		if !l.CreatedAt.Before(from) && l.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type memReviews struct {
	mu       sync.Mutex
	seq      int64
	reviews  map[int64]*domain.Review
	listings *memListings
	names    map[int64]string // user id -> full name
}

func newMemReviews(listings *memListings) *memReviews {
	return &memReviews{reviews: map[int64]*domain.Review{}, listings: listings, names: map[int64]string{}}
}

func (m *memReviews) recountLocked(listingID int64) {
	n := 0
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			n++
		}
	}
	m.listings.mu.Lock()
	if l, ok := m.listings.listings[listingID]; ok {
		l.ReviewCount = n
	}
	m.listings.mu.Unlock()
}

func (m *memReviews) CreateReview(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.reviews {
		if ex.UserID == r.UserID && ex.ListingID == r.ListingID {
			return domain.Conflict("You have already submitted a review for this listing")
		}
	}
	m.seq++
	r.ID = m.seq
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	cp := *r
	m.reviews[r.ID] = &cp
	m.recountLocked(r.ListingID)
	return nil
}

func (m *memReviews) UpdateReview(_ context.Context, r domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ex, ok := m.reviews[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	ex.Rating = r.Rating
	ex.Comment = r.Comment
	return nil
}

func (m *memReviews) DeleteReview(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.reviews, id)
	m.recountLocked(r.ListingID)
	return nil
}

func (m *memReviews) GetReview(_ context.Context, id int64) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return *r, nil
}

func (m *memReviews) ListReviews(_ context.Context, q domain.ReviewQuery) ([]domain.ReviewDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ReviewDetail
	for _, r := range m.reviews {
		if q.ListingID != 0 && r.ListingID != q.ListingID {
			continue
		}
		if q.UserID != 0 && r.UserID != q.UserID {
			continue
		}
		if q.UnapprovedOnly && r.IsApproved {
			continue
		}
		if q.MinRating != 0 && r.Rating < q.MinRating {
			continue
		}
		name := m.names[r.UserID]
		if q.ReviewerName != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(q.ReviewerName)) {
			continue
		}
		var title string
		if l, err := m.listings.GetListing(context.Background(), r.ListingID); err == nil {
			title = l.Title
		}
		if q.ListingTitle != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(q.ListingTitle)) {
			continue
		}
		out = append(out, domain.ReviewDetail{Review: *r, UserFullName: name, ListingTitle: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memReviews) SetApproved(_ context.Context, id int64, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.IsApproved = approved
	return nil
}

func (m *memReviews) ReviewTotals(_ context.Context) (domain.ReviewTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var t domain.ReviewTotals
	sum := 0.0
	for _, r := range m.reviews {
		t.Total++
		sum += r.Rating
		if r.IsApproved {
			t.Approved++
		}
		if r.Rating >= 4 {
			t.Positive++
		}
	}
	if t.Total > 0 {
		t.AverageRating = sum / float64(t.Total)
	}
	return t, nil
}

func (m *memReviews) CountReviewsCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reviews {
		if !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *memReviews) CountReviewsByUser(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reviews {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memBookmarks struct {
	mu        sync.Mutex
	seq       int64
	bookmarks map[int64]*domain.Bookmark
	listings  *memListings
}

func newMemBookmarks(listings *memListings) *memBookmarks {
	return &memBookmarks{bookmarks: map[int64]*domain.Bookmark{}, listings: listings}
}

func (m *memBookmarks) CreateBookmark(_ context.Context, b *domain.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.bookmarks {
		if ex.UserID == b.UserID && ex.ListingID == b.ListingID {
			return domain.Conflict("You have already bookmarked this listing")
		}
	}
	m.seq++
	b.ID = m.seq
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	cp := *b
	m.bookmarks[b.ID] = &cp
	return nil
}

func (m *memBookmarks) DeleteBookmark(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookmarks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bookmarks, id)
	return nil
}

func (m *memBookmarks) GetBookmark(_ context.Context, id int64) (domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookmarks[id]
	if !ok {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	return *b, nil
}

func (m *memBookmarks) FindBookmark(_ context.Context, userID, listingID int64) (domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookmarks {
		if b.UserID == userID && b.ListingID == listingID {
			return *b, nil
		}
	}
	return domain.Bookmark{}, domain.ErrNotFound
}

func (m *memBookmarks) ListBookmarks(_ context.Context, q domain.BookmarkQuery) ([]domain.BookmarkDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BookmarkDetail
	for _, b := range m.bookmarks {
		if q.UserID != 0 && b.UserID != q.UserID {
			continue
		}
		if q.ListingID != 0 && b.ListingID != q.ListingID {
			continue
		}
		var title string
		if l, err := m.listings.GetListing(context.Background(), b.ListingID); err == nil {
			title = l.Title
		}
		out = append(out, domain.BookmarkDetail{Bookmark: *b, ListingTitle: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memBookmarks) CountBookmarksByUser(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookmarks {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Listing:
		*d = v.(domain.Listing)
	case *[]domain.Listing:
		*d = v.([]domain.Listing)
	default:
		return false, nil
	}
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func validListing(title string) domain.Listing {
	return domain.Listing{
		Title:         title,
		Description:   "Spacious rooms near campus",
		Category:      "pg",
		ProviderName:  "Ravi Kumar",
		ProviderPhone: "9876543210",
		ProviderEmail: "ravi@example.com",
		Address:       "12 MG Road",
		Price:         7500,
		City:          "Pune",
		State:         "Maharashtra",
		Latitude:      18.52,
		Longitude:     73.85,
		Amenities:     []string{"WiFi"},
		Availability:  true,
		IsActive:      true,
		Images:        []string{"listings/a.jpg"},
	}
}
