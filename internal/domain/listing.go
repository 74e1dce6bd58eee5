package domain

import (
	"strings"
	"time"
)

var Categories = []string{"pg", "hostel", "mess", "tiffin", "tutor"}

var Amenities = []string{
	"WiFi", "Air Conditioning", "Laundry", "Attached Bathroom",
	"Meals Included", "Housekeeping", "Parking", "CCTV",
	"Study Table", "Wardrobe", "24x7 Water", "Security Guard",
	"Power Backup", "Refrigerator", "TV", "Geyser",
}

// GeoDuplicateDelta is the degree window (~100m) within which two listings
// are treated as the same location.
const GeoDuplicateDelta = 0.001

// Listing is a property/service offer created by an admin. Rating and
// ReviewCount are derived: ReviewCount always equals the number of reviews
// referencing the listing and is recomputed on every review create/delete.
type Listing struct {
	ID            int64
	Title         string
	Description   string
	Category      string
	ProviderName  string
	ProviderPhone string
	ProviderEmail string
	Address       string
	Price         float64
	City          string
	State         string
	Latitude      float64
	Longitude     float64
	Amenities     []string
	Availability  bool
	Rating        float64
	ReviewCount   int
	IsActive      bool
	CreatedBy     int64
	Images        []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidCategory reports whether c is one of the recognized categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidateAmenities returns the first amenity outside the recognized set.
func ValidateAmenities(list []string) (string, bool) {
	for _, a := range list {
		ok := false
		for _, v := range Amenities {
			if v == a {
				ok = true
				break
			}
		}
		if !ok {
			return a, true
		}
	}
	return "", false
}

// ValidateListing checks the intrinsic field rules shared by create and
// update paths. Duplicate checks against other listings live in the repo.
func ValidateListing(l Listing) error {
	if strings.TrimSpace(l.Title) == "" {
		return Invalid("title", "Title is required")
	}
	if len(l.Title) > 200 {
		return Invalid("title", "Title cannot exceed 200 characters")
	}
	if strings.TrimSpace(l.Description) == "" {
		return Invalid("description", "Description is required")
	}
	if !ValidCategory(l.Category) {
		return Invalid("category", "Invalid category. Choose from: PG, Hostel, Mess, Tiffin Service, Tutor")
	}
	if strings.TrimSpace(l.ProviderName) == "" {
		return Invalid("provider_name", "Provider name is required")
	}
	if !isDigits(l.ProviderPhone) {
		return Invalid("provider_phone", "Phone number must contain digits only")
	}
	if len(l.ProviderPhone) != 10 {
		return Invalid("provider_phone", "Phone number should be 10 digits long")
	}
	if strings.TrimSpace(l.ProviderEmail) == "" {
		return Invalid("provider_email", "Provider email is required")
	}
	if strings.TrimSpace(l.Address) == "" {
		return Invalid("address", "Address is required")
	}
	if l.Price < 0 {
		return Invalid("price", "Price cannot be negative")
	}
	if strings.TrimSpace(l.City) == "" {
		return Invalid("city", "City is required")
	}
	if strings.TrimSpace(l.State) == "" {
		return Invalid("state", "State is required")
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return Invalid("latitude", "Latitude must be between -90 and 90 degrees")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return Invalid("longitude", "Longitude must be between -180 and 180 degrees")
	}
	if a, bad := ValidateAmenities(l.Amenities); bad {
		return Invalid("amenities", "'"+a+"' is not a valid amenity")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
