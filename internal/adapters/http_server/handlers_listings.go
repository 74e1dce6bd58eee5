package httpserver

import (
	"net/http"

	"campusnest/internal/app"
	"campusnest/internal/domain"
)

type listingReq struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	ProviderName  string   `json:"provider_name" validate:"required"`
	ProviderPhone string   `json:"provider_phone" validate:"required"`
	ProviderEmail string   `json:"provider_email" validate:"required,email"`
	Address       string   `json:"address" validate:"required"`
	Price         float64  `json:"price"`
	City          string   `json:"city" validate:"required"`
	State         string   `json:"state" validate:"required"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Amenities     []string `json:"amenities"`
	Availability  *bool    `json:"availability"`
	Images        []string `json:"images"`
}

func (h *Handlers) createListing(w http.ResponseWriter, r *http.Request) {
	var req listingReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}
	l := domain.Listing{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ProviderName:  req.ProviderName,
		ProviderPhone: req.ProviderPhone,
		ProviderEmail: req.ProviderEmail,
		Address:       req.Address,
		Price:         req.Price,
		City:          req.City,
		State:         req.State,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Amenities:     req.Amenities,
		Availability:  availability,
		Images:        req.Images,
	}
	created, err := h.Listings.Create(r.Context(), mustPrincipal(r), l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Listing created successfully", toListingDTO(created))
}

type listingUpdateReq struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	ProviderName  *string  `json:"provider_name"`
	ProviderPhone *string  `json:"provider_phone"`
	ProviderEmail *string  `json:"provider_email"`
	Address       *string  `json:"address"`
	Price         *float64 `json:"price"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Amenities     []string `json:"amenities"`
	Availability  *bool    `json:"availability"`
	Images        []string `json:"images"`
}

func (h *Handlers) updateListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req listingUpdateReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	upd := app.ListingUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ProviderName:  req.ProviderName,
		ProviderPhone: req.ProviderPhone,
		ProviderEmail: req.ProviderEmail,
		Address:       req.Address,
		Price:         req.Price,
		City:          req.City,
		State:         req.State,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Amenities:     req.Amenities,
		Availability:  req.Availability,
		Images:        req.Images,
	}
	updated, err := h.Listings.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Listing updated successfully", toListingDTO(updated))
}

func (h *Handlers) deleteListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Listings.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Listing deleted successfully", nil)
}

func (h *Handlers) toggleListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	available, err := h.Listings.ToggleAvailability(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := "Listing marked unavailable"
	if available {
		msg = "Listing marked available"
	}
	writeOK(w, http.StatusOK, msg, map[string]bool{"availability": available})
}

func (h *Handlers) getListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toListingDTO(l))
}

func (h *Handlers) listActiveListings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Listings.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toListingDTOs(out))
}

func (h *Handlers) listAllListings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Listings.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toListingDTOs(out))
}

func (h *Handlers) listingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Listings.GrowthStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", stats)
}
