package app

import (
	"context"
	"time"

	"campusnest/internal/domain"
)

// RecentPendingLimit caps the admin dashboard's "recent pending" view.
const RecentPendingLimit = 3

// ReviewService gates review mutations by ownership and uniqueness rules and
// keeps the listing aggregates consistent. Every create/delete goes through
// the repository's transactional mutate-then-recount, then drops the cached
// listing entries whose review_count just changed.
type ReviewService struct {
	reviews  domain.ReviewRepository
	listings domain.ListingRepository
	cache    domain.Cache
	now      func() time.Time
}

func NewReviewService(reviews domain.ReviewRepository, listings domain.ListingRepository, cache domain.Cache) *ReviewService {
	return &ReviewService{reviews: reviews, listings: listings, cache: cache, now: time.Now}
}

type ReviewInput struct {
	ListingID int64
	Rating    float64
	Comment   string
}

// Create persists a pending review. The (user, listing) uniqueness is
// enforced by the storage unique key; the pre-check only gives a friendlier
// conflict before the insert races.
func (s *ReviewService) Create(ctx context.Context, p domain.Principal, in ReviewInput) (domain.Review, error) {
	if in.ListingID == 0 {
		return domain.Review{}, domain.Invalid("listing", "Listing ID is required")
	}
	if _, err := s.listings.GetListing(ctx, in.ListingID); err != nil {
		return domain.Review{}, err
	}
	if err := domain.ValidateRating(in.Rating); err != nil {
		return domain.Review{}, err
	}
	if err := domain.ValidateComment(in.Comment); err != nil {
		return domain.Review{}, err
	}

	existing, err := s.reviews.ListReviews(ctx, domain.ReviewQuery{ListingID: in.ListingID, UserID: p.ID, Limit: 1})
	if err != nil {
		return domain.Review{}, err
	}
	if len(existing) > 0 {
		return domain.Review{}, domain.Conflict("You have already submitted a review for this listing")
	}

	r := domain.Review{
		UserID:    p.ID,
		ListingID: in.ListingID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.reviews.CreateReview(ctx, &r); err != nil {
		return domain.Review{}, err
	}
	s.invalidateListing(ctx, in.ListingID)
	return r, nil
}

type ReviewUpdate struct {
	ListingID int64
	Rating    *float64
	Comment   *string
}

// Update edits an owned review in place. The listing reference in the
// request must match the stored one; reviews cannot be re-targeted.
func (s *ReviewService) Update(ctx context.Context, p domain.Principal, id int64, upd ReviewUpdate) (domain.Review, error) {
	r, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if r.UserID != p.ID {
		return domain.Review{}, domain.Forbidden("You are not allowed to edit this review")
	}
	if upd.ListingID != 0 && upd.ListingID != r.ListingID {
		return domain.Review{}, domain.Forbidden("No review found with this listing")
	}
	if upd.Rating == nil && upd.Comment == nil {
		return domain.Review{}, domain.Invalid("review", "Provide at least a rating or a comment to update")
	}
	if upd.Rating != nil {
		if err := domain.ValidateRating(*upd.Rating); err != nil {
			return domain.Review{}, err
		}
		r.Rating = *upd.Rating
	}
	if upd.Comment != nil {
		if err := domain.ValidateComment(*upd.Comment); err != nil {
			return domain.Review{}, err
		}
		r.Comment = *upd.Comment
	}
	if err := s.reviews.UpdateReview(ctx, r); err != nil {
		return domain.Review{}, err
	}
	return r, nil
}

// Delete removes an owned review; the repository recounts the listing in the
// same transaction.
func (s *ReviewService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	r, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if r.UserID != p.ID {
		return domain.Forbidden("You are not allowed to delete this review")
	}
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.invalidateListing(ctx, r.ListingID)
	return nil
}

// Approve is the admin moderation step. It never touches review_count: the
// count already includes pending reviews.
func (s *ReviewService) Approve(ctx context.Context, id int64, approved bool) (domain.Review, error) {
	if _, err := s.reviews.GetReview(ctx, id); err != nil {
		return domain.Review{}, err
	}
	if err := s.reviews.SetApproved(ctx, id, approved); err != nil {
		return domain.Review{}, err
	}
	return s.reviews.GetReview(ctx, id)
}

// List filters the review collection and annotates relative ages.
func (s *ReviewService) List(ctx context.Context, q domain.ReviewQuery) ([]domain.ReviewDetail, error) {
	out, err := s.reviews.ListReviews(ctx, q)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range out {
		out[i].TimeAgo = domain.TimeAgo(out[i].CreatedAt, now)
	}
	return out, nil
}

// RecentPending returns the newest pending reviews for the admin dashboard.
func (s *ReviewService) RecentPending(ctx context.Context) ([]domain.ReviewDetail, error) {
	return s.List(ctx, domain.ReviewQuery{UnapprovedOnly: true, Limit: RecentPendingLimit})
}

// CountByUser reports how many reviews the user has written.
func (s *ReviewService) CountByUser(ctx context.Context, userID int64) (int, error) {
	return s.reviews.CountReviewsByUser(ctx, userID)
}

// ReviewStats is the admin dashboard aggregate.
type ReviewStats struct {
	Total              int     `json:"total"`
	Approved           int     `json:"approved"`
	Pending            int     `json:"pending"`
	Positive           int     `json:"positive"`
	PositivePercentage float64 `json:"positivePercentage"`
	AverageRating      float64 `json:"averageRating"`
	domain.GrowthStats
}

// Stats aggregates the whole collection plus month-over-month growth.
func (s *ReviewService) Stats(ctx context.Context) (ReviewStats, error) {
	totals, err := s.reviews.ReviewTotals(ctx)
	if err != nil {
		return ReviewStats{}, err
	}
	thisStart, nextStart, lastStart := domain.MonthBounds(s.now())
	thisCount, err := s.reviews.CountReviewsCreatedBetween(ctx, thisStart, nextStart)
	if err != nil {
		return ReviewStats{}, err
	}
	lastCount, err := s.reviews.CountReviewsCreatedBetween(ctx, lastStart, thisStart)
	if err != nil {
		return ReviewStats{}, err
	}

	stats := ReviewStats{
		Total:         totals.Total,
		Approved:      totals.Approved,
		Pending:       totals.Total - totals.Approved,
		Positive:      totals.Positive,
		AverageRating: domain.Round1(totals.AverageRating),
		GrowthStats:   domain.NewGrowthStats(thisCount, lastCount),
	}
	if totals.Total > 0 {
		stats.PositivePercentage = domain.Round1(float64(totals.Positive) / float64(totals.Total) * 100)
	}
	return stats, nil
}

func (s *ReviewService) invalidateListing(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, listingKey(id))
	_ = s.cache.Del(ctx, activeListingsKey)
	_ = s.cache.Del(ctx, allListingsKey)
}
