package domain

import "time"

// Bookmark marks a listing saved by a user. At most one bookmark per
// (user, listing) pair, enforced by a storage unique key. Admins and the
// listing's owner may not bookmark.
type Bookmark struct {
	ID        int64
	UserID    int64
	ListingID int64
	CreatedAt time.Time
}

// BookmarkDetail joins the listing title for list views.
type BookmarkDetail struct {
	Bookmark
	ListingTitle string
}

// BookmarkQuery filters bookmarks. Zero fields are ignored.
type BookmarkQuery struct {
	UserID    int64
	ListingID int64
	Limit     int
}
