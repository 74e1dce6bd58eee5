package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

var Genders = []string{"male", "female", "other"}

var SharingPreferences = []string{"private", "shared", "any"}

// User is an account. FullName, Email, PasswordHash, Role and Phone are set
// at signup; everything in Profile stays nil until the owner fills it in
// through the multi-step profile flow.
type User struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	IsVerified   bool
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the optional account fields. Pointer fields are nil until
// supplied; list fields are nil until supplied and may legitimately be empty
// afterwards (an empty selection still counts as filled).
type Profile struct {
	DOB                 *time.Time
	Gender              *string
	ProfileImage        *string
	City                *string
	District            *string
	State               *string
	Pincode             *string
	AffiliationType     *string
	AffiliationName     *string
	PreferredCity       *string
	PreferredDistrict   *string
	PreferredState      *string
	PreferredPincode    *string
	PreferredCategories []string
	PreferredAmenities  []string
	PreferredLocations  []string
	Budget              *int
	SharingPreference   *string
}

// ProfilePatch is a partial profile update. Nil means "not submitted in this
// call"; the engine merges it onto the persisted state before evaluating
// completeness.
type ProfilePatch struct {
	FullName            *string
	Phone               *string
	DOB                 *time.Time
	Gender              *string
	ProfileImage        *string
	City                *string
	District            *string
	State               *string
	Pincode             *string
	AffiliationType     *string
	AffiliationName     *string
	PreferredCity       *string
	PreferredDistrict   *string
	PreferredState      *string
	PreferredPincode    *string
	PreferredCategories []string
	PreferredAmenities  []string
	PreferredLocations  []string
	Budget              *int
	SharingPreference   *string
}

// Profile step identifiers for the multi-step form.
const (
	StepPersonal    = 1
	StepLocation    = 2
	StepAffiliation = 3
	StepPreferences = 4
)

// StepFields returns the recognized field names for a step; an unknown step
// owns no fields.
func StepFields(step int) []string {
	switch step {
	case StepPersonal:
		return []string{"full_name", "phone", "dob", "gender", "profile_image"}
	case StepLocation:
		return []string{"city", "district", "state", "pincode"}
	case StepAffiliation:
		return []string{"affiliation_type", "affiliation_name"}
	case StepPreferences:
		return []string{
			"preferred_city", "preferred_district", "preferred_state",
			"preferred_pincode", "preferred_categories", "preferred_amenities",
			"preferred_locations", "budget", "sharing_preference",
		}
	default:
		return nil
	}
}

// Has reports whether the named field is present in the patch.
func (p ProfilePatch) Has(field string) bool {
	switch field {
	case "full_name":
		return p.FullName != nil
	case "phone":
		return p.Phone != nil
	case "dob":
		return p.DOB != nil
	case "gender":
		return p.Gender != nil
	case "profile_image":
		return p.ProfileImage != nil
	case "city":
		return p.City != nil
	case "district":
		return p.District != nil
	case "state":
		return p.State != nil
	case "pincode":
		return p.Pincode != nil
	case "affiliation_type":
		return p.AffiliationType != nil
	case "affiliation_name":
		return p.AffiliationName != nil
	case "preferred_city":
		return p.PreferredCity != nil
	case "preferred_district":
		return p.PreferredDistrict != nil
	case "preferred_state":
		return p.PreferredState != nil
	case "preferred_pincode":
		return p.PreferredPincode != nil
	case "preferred_categories":
		return p.PreferredCategories != nil
	case "preferred_amenities":
		return p.PreferredAmenities != nil
	case "preferred_locations":
		return p.PreferredLocations != nil
	case "budget":
		return p.Budget != nil
	case "sharing_preference":
		return p.SharingPreference != nil
	}
	return false
}

// HasAny reports whether at least one of the named fields is present.
func (p ProfilePatch) HasAny(fields []string) bool {
	for _, f := range fields {
		if p.Has(f) {
			return true
		}
	}
	return false
}

// MergeProfile applies the patch onto the persisted state and returns the new
// full state. The input user is not mutated.
func MergeProfile(u User, p ProfilePatch) User {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.DOB != nil {
		u.Profile.DOB = p.DOB
	}
	if p.Gender != nil {
		u.Profile.Gender = p.Gender
	}
	if p.ProfileImage != nil {
		u.Profile.ProfileImage = p.ProfileImage
	}
	if p.City != nil {
		u.Profile.City = p.City
	}
	if p.District != nil {
		u.Profile.District = p.District
	}
	if p.State != nil {
		u.Profile.State = p.State
	}
	if p.Pincode != nil {
		u.Profile.Pincode = p.Pincode
	}
	if p.AffiliationType != nil {
		u.Profile.AffiliationType = p.AffiliationType
	}
	if p.AffiliationName != nil {
		u.Profile.AffiliationName = p.AffiliationName
	}
	if p.PreferredCity != nil {
		u.Profile.PreferredCity = p.PreferredCity
	}
	if p.PreferredDistrict != nil {
		u.Profile.PreferredDistrict = p.PreferredDistrict
	}
	if p.PreferredState != nil {
		u.Profile.PreferredState = p.PreferredState
	}
	if p.PreferredPincode != nil {
		u.Profile.PreferredPincode = p.PreferredPincode
	}
	if p.PreferredCategories != nil {
		u.Profile.PreferredCategories = p.PreferredCategories
	}
	if p.PreferredAmenities != nil {
		u.Profile.PreferredAmenities = p.PreferredAmenities
	}
	if p.PreferredLocations != nil {
		u.Profile.PreferredLocations = p.PreferredLocations
	}
	if p.Budget != nil {
		u.Profile.Budget = p.Budget
	}
	if p.SharingPreference != nil {
		u.Profile.SharingPreference = p.SharingPreference
	}
	return u
}

// completenessFields lists every field that must be filled before an account
// is considered complete, in the order missing fields are reported.
// profile_image and preferred_locations are deliberately absent: both are
// optional and never block verification.
var completenessFields = []struct {
	name   string
	filled func(User) bool
}{
	{"full_name", func(u User) bool { return strings.TrimSpace(u.FullName) != "" }},
	{"phone", func(u User) bool { return strings.TrimSpace(u.Phone) != "" }},
	{"dob", func(u User) bool { return u.Profile.DOB != nil }},
	{"gender", func(u User) bool { return strFilled(u.Profile.Gender) }},
	{"city", func(u User) bool { return strFilled(u.Profile.City) }},
	{"district", func(u User) bool { return strFilled(u.Profile.District) }},
	{"state", func(u User) bool { return strFilled(u.Profile.State) }},
	{"pincode", func(u User) bool { return strFilled(u.Profile.Pincode) }},
	{"affiliation_type", func(u User) bool { return strFilled(u.Profile.AffiliationType) }},
	{"affiliation_name", func(u User) bool { return strFilled(u.Profile.AffiliationName) }},
	{"preferred_city", func(u User) bool { return strFilled(u.Profile.PreferredCity) }},
	{"preferred_district", func(u User) bool { return strFilled(u.Profile.PreferredDistrict) }},
	{"preferred_state", func(u User) bool { return strFilled(u.Profile.PreferredState) }},
	{"preferred_pincode", func(u User) bool { return strFilled(u.Profile.PreferredPincode) }},
	{"preferred_categories", func(u User) bool { return u.Profile.PreferredCategories != nil }},
	{"preferred_amenities", func(u User) bool { return u.Profile.PreferredAmenities != nil }},
	{"budget", func(u User) bool { return u.Profile.Budget != nil }},
	{"sharing_preference", func(u User) bool { return strFilled(u.Profile.SharingPreference) }},
}

func strFilled(p *string) bool { return p != nil && strings.TrimSpace(*p) != "" }

// IsComplete reports whether every non-exempt field of the merged state is
// filled. Empty-but-present list selections count as filled.
func IsComplete(u User) bool {
	_, missing := FirstMissingField(u)
	return !missing
}

// FirstMissingField returns the first unfilled non-exempt field name.
func FirstMissingField(u User) (string, bool) {
	for _, f := range completenessFields {
		if !f.filled(u) {
			return f.name, true
		}
	}
	return "", false
}

// MaybeVerify decides whether the verification flag flips after a persist.
// The flag is monotonic: a verified account is never re-checked and never
// downgraded.
func MaybeVerify(old, merged User) bool {
	if old.IsVerified {
		return false
	}
	return IsComplete(merged)
}

// FieldLabel renders a field name the way validation messages expect it:
// "affiliation_type" -> "Affiliation type".
func FieldLabel(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
