package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"campusnest/internal/app"
	"campusnest/internal/domain"
)

type Handlers struct {
	Auth      *app.AuthService
	Profile   *app.ProfileService
	Users     *app.UserService
	Listings  *app.ListingService
	Reviews   *app.ReviewService
	Bookmarks *app.BookmarkService
	Uploads   *app.UploadService

	LoginRPS   float64
	LoginBurst int
}

func (s *Server) MountHandlers(h *Handlers) {
	rps, burst := h.LoginRPS, h.LoginBurst
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 5
	}

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.Group(func(r chi.Router) {
		r.Use(Authenticate(h.Auth))

		r.Post("/signup", h.signup)
		r.With(RateLimit(rps, burst)).Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/listings", h.listActiveListings)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/me", h.me)
			r.Put("/profile", h.updateProfile)

			r.Post("/reviews", h.createReview)
			r.Put("/reviews/{id}", h.updateReview)
			r.Delete("/reviews/{id}", h.deleteReview)
			r.Get("/reviews", h.listReviews)
			r.Get("/reviews/mine", h.myReviews)
			r.Get("/reviews/mine/count", h.myReviewCount)

			r.Post("/bookmarks", h.createBookmark)
			r.Post("/bookmarks/toggle", h.toggleBookmark)
			r.Delete("/bookmarks/{id}", h.deleteBookmark)
			r.Get("/bookmarks", h.listBookmarks)
			r.Get("/bookmarks/recent", h.recentBookmarks)
			r.Get("/bookmarks/count", h.bookmarkCount)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/listings", h.createListing)
			r.Put("/listings/{id}", h.updateListing)
			r.Delete("/listings/{id}", h.deleteListing)
			r.Post("/listings/{id}/toggle", h.toggleListing)
			r.Get("/listings/{id}", h.getListing)
			r.Post("/uploads", h.uploadImage)

			r.Get("/admin/listings", h.listAllListings)
			r.Get("/admin/listings/stats", h.listingStats)

			r.Get("/admin/users", h.listUsers)
			r.Delete("/admin/users/{id}", h.deleteUser)
			r.Get("/admin/users/stats", h.userStats)

			r.Get("/admin/reviews", h.adminListReviews)
			r.Patch("/admin/reviews/{id}/approve", h.approveReview)
			r.Get("/admin/reviews/stats", h.reviewStats)
			r.Get("/admin/reviews/recent", h.recentPendingReviews)
		})
	})
}

// ---- request decoding ----

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the JSON body and applies the DTO's validate tags. Tag
// failures surface in the same voice as the service-level checks.
func bind(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("body", "Invalid JSON payload")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			switch fe.Tag() {
			case "email":
				return domain.Invalid(fe.Field(), "Invalid email address")
			default:
				return domain.Invalid(fe.Field(), domain.FieldLabel(fe.Field())+" is required")
			}
		}
		return domain.Invalid("body", "Invalid payload")
	}
	return nil
}

// bindOptional decodes like bind but tolerates an empty or absent body.
func bindOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return bind(r, dst)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "ID must be a positive number")
	}
	return id, nil
}

func mustPrincipal(r *http.Request) domain.Principal {
	p, _ := PrincipalFrom(r)
	return p
}

// ---- response DTOs ----

type userDTO struct {
	ID         int64          `json:"id"`
	FullName   string         `json:"full_name"`
	Email      string         `json:"email"`
	Role       string         `json:"role"`
	Phone      string         `json:"phone"`
	IsVerified bool           `json:"is_verified"`
	Profile    profileDTO     `json:"profile"`
	CreatedAt  time.Time      `json:"created_at"`
}

type profileDTO struct {
	DOB                 *string  `json:"dob"`
	Gender              *string  `json:"gender"`
	ProfileImage        *string  `json:"profile_image"`
	City                *string  `json:"city"`
	District            *string  `json:"district"`
	State               *string  `json:"state"`
	Pincode             *string  `json:"pincode"`
	AffiliationType     *string  `json:"affiliation_type"`
	AffiliationName     *string  `json:"affiliation_name"`
	PreferredCity       *string  `json:"preferred_city"`
	PreferredDistrict   *string  `json:"preferred_district"`
	PreferredState      *string  `json:"preferred_state"`
	PreferredPincode    *string  `json:"preferred_pincode"`
	PreferredCategories []string `json:"preferred_categories"`
	PreferredAmenities  []string `json:"preferred_amenities"`
	PreferredLocations  []string `json:"preferred_locations"`
	Budget              *int     `json:"budget"`
	SharingPreference   *string  `json:"sharing_preference"`
}

const dobLayout = "2006-01-02"

func toUserDTO(u domain.User) userDTO {
	var dob *string
	if u.Profile.DOB != nil {
		s := u.Profile.DOB.Format(dobLayout)
		dob = &s
	}
	return userDTO{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       string(u.Role),
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		Profile: profileDTO{
			DOB:                 dob,
			Gender:              u.Profile.Gender,
			ProfileImage:        u.Profile.ProfileImage,
			City:                u.Profile.City,
			District:            u.Profile.District,
			State:               u.Profile.State,
			Pincode:             u.Profile.Pincode,
			AffiliationType:     u.Profile.AffiliationType,
			AffiliationName:     u.Profile.AffiliationName,
			PreferredCity:       u.Profile.PreferredCity,
			PreferredDistrict:   u.Profile.PreferredDistrict,
			PreferredState:      u.Profile.PreferredState,
			PreferredPincode:    u.Profile.PreferredPincode,
			PreferredCategories: u.Profile.PreferredCategories,
			PreferredAmenities:  u.Profile.PreferredAmenities,
			PreferredLocations:  u.Profile.PreferredLocations,
			Budget:              u.Profile.Budget,
			SharingPreference:   u.Profile.SharingPreference,
		},
	}
}

type listingDTO struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ProviderName  string    `json:"provider_name"`
	ProviderPhone string    `json:"provider_phone"`
	ProviderEmail string    `json:"provider_email"`
	Address       string    `json:"address"`
	Price         float64   `json:"price"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Amenities     []string  `json:"amenities"`
	Availability  bool      `json:"availability"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	IsActive      bool      `json:"is_active"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"created_at"`
}

func toListingDTO(l domain.Listing) listingDTO {
	return listingDTO{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Category:      l.Category,
		ProviderName:  l.ProviderName,
		ProviderPhone: l.ProviderPhone,
		ProviderEmail: l.ProviderEmail,
		Address:       l.Address,
		Price:         l.Price,
		City:          l.City,
		State:         l.State,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		Amenities:     l.Amenities,
		Availability:  l.Availability,
		Rating:        l.Rating,
		ReviewCount:   l.ReviewCount,
		IsActive:      l.IsActive,
		Images:        l.Images,
		CreatedAt:     l.CreatedAt,
	}
}

func toListingDTOs(ls []domain.Listing) []listingDTO {
	out := make([]listingDTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingDTO(l))
	}
	return out
}

type reviewDTO struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ListingID    int64     `json:"listing_id"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
	UserFullName string    `json:"user_full_name,omitempty"`
	ListingTitle string    `json:"listing_title,omitempty"`
	TimeAgo      string    `json:"time_ago,omitempty"`
}

func toReviewDTO(r domain.Review) reviewDTO {
	return reviewDTO{
		ID:         r.ID,
		UserID:     r.UserID,
		ListingID:  r.ListingID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		IsApproved: r.IsApproved,
		CreatedAt:  r.CreatedAt,
	}
}

func toReviewDetailDTOs(ds []domain.ReviewDetail) []reviewDTO {
	out := make([]reviewDTO, 0, len(ds))
	for _, d := range ds {
		dto := toReviewDTO(d.Review)
		dto.UserFullName = d.UserFullName
		dto.ListingTitle = d.ListingTitle
		dto.TimeAgo = d.TimeAgo
		out = append(out, dto)
	}
	return out
}

type bookmarkDTO struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ListingID    int64     `json:"listing_id"`
	ListingTitle string    `json:"listing_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toBookmarkDTO(b domain.Bookmark) bookmarkDTO {
	return bookmarkDTO{ID: b.ID, UserID: b.UserID, ListingID: b.ListingID, CreatedAt: b.CreatedAt}
}

func toBookmarkDetailDTOs(ds []domain.BookmarkDetail) []bookmarkDTO {
	out := make([]bookmarkDTO, 0, len(ds))
	for _, d := range ds {
		dto := toBookmarkDTO(d.Bookmark)
		dto.ListingTitle = d.ListingTitle
		out = append(out, dto)
	}
	return out
}
