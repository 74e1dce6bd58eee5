package domain

import (
	"context"
	"io"
	"time"
)

// Principal is the authenticated caller, supplied by the auth layer.
type Principal struct {
	ID         int64
	Role       Role
	IsVerified bool
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type UserRepository interface {
	// CreateUser fills ID and CreatedAt; a duplicate email yields a ConflictError.
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// SaveProfile persists FullName, Phone and every Profile column from the
	// merged state. It never touches IsVerified.
	SaveProfile(ctx context.Context, u User) error
	SetVerified(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]User, error)
	// DeleteUser removes the account with its bookmarks and reviews, then
	// recounts every listing the deleted reviews referenced, atomically.
	DeleteUser(ctx context.Context, id int64) error
	CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type ListingRepository interface {
	CreateListing(ctx context.Context, l *Listing) error
	// UpdateListing persists the listing fields; when l.Images is non-nil the
	// stored image set is replaced wholesale.
	UpdateListing(ctx context.Context, l Listing) error
	DeleteListing(ctx context.Context, id int64) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	GetListing(ctx context.Context, id int64) (Listing, error)
	ListListings(ctx context.Context, activeOnly bool) ([]Listing, error)
	TitleAddressExists(ctx context.Context, title, address string) (bool, error)
	// LocationExists reports another listing within ±delta degrees on both axes.
	LocationExists(ctx context.Context, lat, lon, delta float64) (bool, error)
	CountListingsCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type ReviewRepository interface {
	// CreateReview inserts and recounts the listing's review_count in one
	// transaction; a duplicate (user, listing) pair yields a ConflictError.
	CreateReview(ctx context.Context, r *Review) error
	UpdateReview(ctx context.Context, r Review) error
	// DeleteReview removes the review and recounts its listing atomically.
	DeleteReview(ctx context.Context, id int64) error
	GetReview(ctx context.Context, id int64) (Review, error)
	ListReviews(ctx context.Context, q ReviewQuery) ([]ReviewDetail, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	ReviewTotals(ctx context.Context) (ReviewTotals, error)
	CountReviewsCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountReviewsByUser(ctx context.Context, userID int64) (int, error)
}

// ReviewTotals aggregates the whole review collection for the admin
// dashboard. Positive counts reviews rated 4 or above.
type ReviewTotals struct {
	Total         int
	Approved      int
	Positive      int
	AverageRating float64
}

type BookmarkRepository interface {
	// CreateBookmark inserts; a duplicate (user, listing) pair yields a
	// ConflictError.
	CreateBookmark(ctx context.Context, b *Bookmark) error
	DeleteBookmark(ctx context.Context, id int64) error
	GetBookmark(ctx context.Context, id int64) (Bookmark, error)
	// FindBookmark returns ErrNotFound when the pair has no bookmark.
	FindBookmark(ctx context.Context, userID, listingID int64) (Bookmark, error)
	ListBookmarks(ctx context.Context, q BookmarkQuery) ([]BookmarkDetail, error)
	CountBookmarksByUser(ctx context.Context, userID int64) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// FileStore accepts validated image blobs and returns a public URL. The
// actual backend (disk, object storage) is outside the core.
type FileStore interface {
	Save(ctx context.Context, key, contentType string, data io.Reader) (string, error)
}
