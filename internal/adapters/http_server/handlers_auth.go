package httpserver

import (
	"net/http"
	"time"

	"campusnest/internal/adapters/observability"
	"campusnest/internal/app"
	"campusnest/internal/domain"
)

type signupReq struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, token, err := h.Auth.Signup(r.Context(), app.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	observability.CountAuthEvent("signup")
	setTokenCookie(w, token)
	writeOK(w, http.StatusCreated, "Account created successfully", map[string]any{
		"user":  toUserDTO(u),
		"token": token,
	})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		observability.CountAuthEvent("login_failed")
		writeError(w, err)
		return
	}
	observability.CountAuthEvent("login")
	setTokenCookie(w, token)
	writeOK(w, http.StatusOK, "Logged in successfully", map[string]any{
		"user":  toUserDTO(u),
		"token": token,
	})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeOK(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	p := mustPrincipal(r)
	u, err := h.Users.Get(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toUserDTO(u))
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// profileReq mirrors the multi-step form: every field optional, plus the step
// marker and the final-submit flag.
type profileReq struct {
	Step        int  `json:"step"`
	FinalSubmit bool `json:"is_final_submit"`

	FullName            *string  `json:"full_name"`
	Phone               *string  `json:"phone"`
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

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := domain.ProfilePatch{
		FullName:            req.FullName,
		Phone:               req.Phone,
		Gender:              req.Gender,
		ProfileImage:        req.ProfileImage,
		City:                req.City,
		District:            req.District,
		State:               req.State,
		Pincode:             req.Pincode,
		AffiliationType:     req.AffiliationType,
		AffiliationName:     req.AffiliationName,
		PreferredCity:       req.PreferredCity,
		PreferredDistrict:   req.PreferredDistrict,
		PreferredState:      req.PreferredState,
		PreferredPincode:    req.PreferredPincode,
		PreferredCategories: req.PreferredCategories,
		PreferredAmenities:  req.PreferredAmenities,
		PreferredLocations:  req.PreferredLocations,
		Budget:              req.Budget,
		SharingPreference:   req.SharingPreference,
	}
	if req.DOB != nil {
		t, err := time.Parse(dobLayout, *req.DOB)
		if err != nil {
			writeError(w, domain.Invalid("dob", "Date of birth must be in YYYY-MM-DD format"))
			return
		}
		patch.DOB = &t
	}

	p := mustPrincipal(r)
	u, verifiedNow, err := h.Profile.UpdateProfile(r.Context(), p.ID, app.ProfileUpdate{
		Patch:       patch,
		Step:        req.Step,
		FinalSubmit: req.FinalSubmit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	msg := "Profile updated successfully"
	if verifiedNow {
		msg = "Profile completed, your account is now verified"
	}
	writeOK(w, http.StatusOK, msg, map[string]any{
		"user":         toUserDTO(u),
		"verified_now": verifiedNow,
	})
}

func (h *Handlers) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(app.MaxImageBytes + 1024); err != nil {
		writeError(w, domain.Invalid("image", "Invalid multipart payload"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, domain.Invalid("image", "Image file is required"))
		return
	}
	defer file.Close()

	url, err := h.Uploads.Save(r.Context(), file, header.Size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Image uploaded successfully", map[string]string{"url": url})
}
