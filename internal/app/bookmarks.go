package app

import (
	"context"
	"errors"

	"campusnest/internal/domain"
)

// RecentBookmarksLimit caps the "recent bookmarks" view.
const RecentBookmarksLimit = 3

// BookmarkService enforces the bookmark rules: one per (user, listing), and
// neither admins nor the listing's owner may bookmark.
type BookmarkService struct {
	bookmarks domain.BookmarkRepository
	listings  domain.ListingRepository
}

func NewBookmarkService(bookmarks domain.BookmarkRepository, listings domain.ListingRepository) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, listings: listings}
}

// Create bookmarks a listing for the caller. The storage unique key backs up
// the duplicate pre-check.
func (s *BookmarkService) Create(ctx context.Context, p domain.Principal, listingID int64) (domain.Bookmark, error) {
	if listingID == 0 {
		return domain.Bookmark{}, domain.Invalid("listing", "Listing ID is required")
	}
	l, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return domain.Bookmark{}, err
	}
	if !l.IsActive {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	if p.IsAdmin() || l.CreatedBy == p.ID {
		return domain.Bookmark{}, domain.Forbidden("You are not allowed to bookmark listings")
	}
	if _, err := s.bookmarks.FindBookmark(ctx, p.ID, listingID); err == nil {
		return domain.Bookmark{}, domain.Conflict("You have already bookmarked this listing")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Bookmark{}, err
	}

	b := domain.Bookmark{UserID: p.ID, ListingID: listingID}
	if err := s.bookmarks.CreateBookmark(ctx, &b); err != nil {
		return domain.Bookmark{}, err
	}
	return b, nil
}

// Toggle removes an existing bookmark or creates one, reporting whether the
// listing ended up bookmarked.
func (s *BookmarkService) Toggle(ctx context.Context, p domain.Principal, listingID int64) (bool, domain.Bookmark, error) {
	if listingID == 0 {
		return false, domain.Bookmark{}, domain.Invalid("listing", "Listing ID is required")
	}
	existing, err := s.bookmarks.FindBookmark(ctx, p.ID, listingID)
	if err == nil {
		if err := s.bookmarks.DeleteBookmark(ctx, existing.ID); err != nil {
			return false, domain.Bookmark{}, err
		}
		return false, domain.Bookmark{}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, domain.Bookmark{}, err
	}
	b, err := s.Create(ctx, p, listingID)
	if err != nil {
		return false, domain.Bookmark{}, err
	}
	return true, b, nil
}

// Remove deletes an owned bookmark.
func (s *BookmarkService) Remove(ctx context.Context, p domain.Principal, id int64) error {
	b, err := s.bookmarks.GetBookmark(ctx, id)
	if err != nil {
		return err
	}
	if b.UserID != p.ID {
		return domain.Forbidden("You are not allowed to remove this bookmark")
	}
	return s.bookmarks.DeleteBookmark(ctx, id)
}

// List returns bookmarks; non-admin callers only ever see their own.
func (s *BookmarkService) List(ctx context.Context, p domain.Principal, q domain.BookmarkQuery) ([]domain.BookmarkDetail, error) {
	if !p.IsAdmin() {
		q.UserID = p.ID
	}
	return s.bookmarks.ListBookmarks(ctx, q)
}

// Recent returns the caller's newest bookmarks.
func (s *BookmarkService) Recent(ctx context.Context, p domain.Principal) ([]domain.BookmarkDetail, error) {
	return s.bookmarks.ListBookmarks(ctx, domain.BookmarkQuery{UserID: p.ID, Limit: RecentBookmarksLimit})
}

// Count reports how many bookmarks the caller holds.
func (s *BookmarkService) Count(ctx context.Context, p domain.Principal) (int, error) {
	return s.bookmarks.CountBookmarksByUser(ctx, p.ID)
}
