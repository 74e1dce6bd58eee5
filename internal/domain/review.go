package domain

import (
	"strings"
	"time"
)

const (
	MinCommentLen = 4
	MinRating     = 1.0
	MaxRating     = 5.0
)

// Review belongs to exactly one user and one listing; at most one review per
// (user, listing) pair exists, enforced by a storage unique key. New reviews
// start unapproved and only an admin flips IsApproved.
type Review struct {
	ID         int64
	UserID     int64
	ListingID  int64
	Rating     float64
	Comment    string
	IsApproved bool
	CreatedAt  time.Time
}

// ReviewDetail is the read model: a review joined with the reviewer's name
// and the listing title, plus a human-readable relative age.
type ReviewDetail struct {
	Review
	UserFullName string
	ListingTitle string
	TimeAgo      string
}

// ReviewQuery filters the review collection. Zero fields are ignored;
// Limit==0 means no cap.
type ReviewQuery struct {
	ListingID      int64
	UserID         int64
	UnapprovedOnly bool
	ReviewerName   string // substring match on user full name
	ListingTitle   string // substring match on listing title
	MinRating      float64
	Limit          int
}

// ValidateRating checks the [1,5] bound.
func ValidateRating(r float64) error {
	if r < MinRating || r > MaxRating {
		return Invalid("rating", "Rating must be between 1 and 5")
	}
	return nil
}

// ValidateComment enforces the minimum length and the not-only-digits rule.
func ValidateComment(c string) error {
	trimmed := strings.TrimSpace(c)
	if trimmed == "" {
		return Invalid("comment", "Comment cannot be blank")
	}
	if isDigits(trimmed) {
		return Invalid("comment", "Comment cannot contain only digits")
	}
	if len(trimmed) < MinCommentLen {
		return Invalid("comment", "Comment must be at least 4 characters")
	}
	return nil
}
