package httpserver

import (
	"net/http"
	"strconv"

	"campusnest/internal/app"
	"campusnest/internal/domain"
)

type reviewReq struct {
	ListingID int64   `json:"listing_id" validate:"required"`
	Rating    float64 `json:"rating" validate:"required"`
	Comment   string  `json:"comment" validate:"required"`
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviewReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rv, err := h.Reviews.Create(r.Context(), mustPrincipal(r), app.ReviewInput{
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Review submitted and pending approval", toReviewDTO(rv))
}

type reviewUpdateReq struct {
	ListingID int64    `json:"listing_id"`
	Rating    *float64 `json:"rating"`
	Comment   *string  `json:"comment"`
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req reviewUpdateReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rv, err := h.Reviews.Update(r.Context(), mustPrincipal(r), id, app.ReviewUpdate{
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Review updated successfully", toReviewDTO(rv))
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Reviews.Delete(r.Context(), mustPrincipal(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Review deleted successfully", nil)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := domain.ReviewQuery{}
	if v := r.URL.Query().Get("listing"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, domain.Invalid("listing", "Listing must be a number"))
			return
		}
		q.ListingID = id
	}
	if v := r.URL.Query().Get("user"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, domain.Invalid("user", "User must be a number"))
			return
		}
		q.UserID = id
	}
	if r.URL.Query().Get("unapproved") == "true" {
		q.UnapprovedOnly = true
	}
	out, err := h.Reviews.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toReviewDetailDTOs(out))
}

func (h *Handlers) myReviews(w http.ResponseWriter, r *http.Request) {
	p := mustPrincipal(r)
	out, err := h.Reviews.List(r.Context(), domain.ReviewQuery{UserID: p.ID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toReviewDetailDTOs(out))
}

func (h *Handlers) myReviewCount(w http.ResponseWriter, r *http.Request) {
	p := mustPrincipal(r)
	n, err := h.Reviews.CountByUser(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", map[string]int{"count": n})
}

func (h *Handlers) adminListReviews(w http.ResponseWriter, r *http.Request) {
	q := domain.ReviewQuery{
		ReviewerName: r.URL.Query().Get("username"),
		ListingTitle: r.URL.Query().Get("listing_title"),
	}
	if v := r.URL.Query().Get("rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, domain.Invalid("rating", "Rating must be a number"))
			return
		}
		q.MinRating = f
	}
	out, err := h.Reviews.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toReviewDetailDTOs(out))
}

type approveReq struct {
	Approved *bool `json:"approved"`
}

func (h *Handlers) approveReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req := approveReq{}
	// Body is optional; an empty body means approve.
	_ = bindOptional(r, &req)
	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}
	rv, err := h.Reviews.Approve(r.Context(), id, approved)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := "Review approved"
	if !approved {
		msg = "Review unapproved"
	}
	writeOK(w, http.StatusOK, msg, toReviewDTO(rv))
}

func (h *Handlers) reviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reviews.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", stats)
}

func (h *Handlers) recentPendingReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reviews.RecentPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toReviewDetailDTOs(out))
}
