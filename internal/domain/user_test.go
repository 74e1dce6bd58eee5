package domain

import (
	"testing"
	"time"
)

func pstr(s string) *string { return &s }
func pint(i int) *int       { return &i }

func completeUser() User {
	dob := time.Date(2001, 6, 14, 0, 0, 0, 0, time.UTC)
	return User{
		ID:       1,
		FullName: "Asha Verma",
		Email:    "asha@example.com",
		Role:     RoleUser,
		Phone:    "9876543210",
		Profile: Profile{
			DOB:                 &dob,
			Gender:              pstr("female"),
			City:                pstr("Pune"),
			District:            pstr("Pune"),
			State:               pstr("Maharashtra"),
			Pincode:             pstr("411001"),
			AffiliationType:     pstr("college"),
			AffiliationName:     pstr("COEP"),
			PreferredCity:       pstr("Pune"),
			PreferredDistrict:   pstr("Pune"),
			PreferredState:      pstr("Maharashtra"),
			PreferredPincode:    pstr("411005"),
			PreferredCategories: []string{"pg"},
			PreferredAmenities:  []string{"WiFi"},
			Budget:              pint(8000),
			SharingPreference:   pstr("any"),
		},
	}
}

func TestIsComplete(t *testing.T) {
	u := completeUser()
	if !IsComplete(u) {
		f, _ := FirstMissingField(u)
		t.Fatalf("expected complete, missing %q", f)
	}

	// Image and preferred locations are exempt and must not block.
	u.Profile.ProfileImage = nil
	u.Profile.PreferredLocations = nil
	if !IsComplete(u) {
		t.Fatal("exempt fields must not affect completeness")
	}

	u.Profile.City = nil
	if IsComplete(u) {
		t.Fatal("expected incomplete without city")
	}
	if f, missing := FirstMissingField(u); !missing || f != "city" {
		t.Fatalf("first missing = %q, want city", f)
	}
}

func TestIsComplete_EmptyListCountsAsFilled(t *testing.T) {
	u := completeUser()
	u.Profile.PreferredAmenities = []string{}
	if !IsComplete(u) {
		t.Fatal("empty-but-present selection should satisfy completeness")
	}
	u.Profile.PreferredAmenities = nil
	if IsComplete(u) {
		t.Fatal("never-supplied selection should not satisfy completeness")
	}
}

func TestIsComplete_BlankStringIsMissing(t *testing.T) {
	u := completeUser()
	u.Profile.State = pstr("   ")
	if IsComplete(u) {
		t.Fatal("whitespace-only value should not count as filled")
	}
}

func TestMergeProfile(t *testing.T) {
	u := completeUser()
	u.Profile.City = nil

	merged := MergeProfile(u, ProfilePatch{
		City:   pstr("Nagpur"),
		Budget: pint(9500),
	})
	if merged.Profile.City == nil || *merged.Profile.City != "Nagpur" {
		t.Fatalf("city not merged: %+v", merged.Profile.City)
	}
	if *merged.Profile.Budget != 9500 {
		t.Fatalf("budget not merged: %v", *merged.Profile.Budget)
	}
	// Untouched fields survive; the input is not mutated.
	if *merged.Profile.State != "Maharashtra" {
		t.Fatal("unpatched field lost")
	}
	if u.Profile.City != nil {
		t.Fatal("input user was mutated")
	}
}

func TestMaybeVerify(t *testing.T) {
	incomplete := completeUser()
	incomplete.Profile.Budget = nil

	if MaybeVerify(incomplete, incomplete) {
		t.Fatal("incomplete state must not verify")
	}
	if !MaybeVerify(incomplete, completeUser()) {
		t.Fatal("complete merged state must verify an unverified account")
	}

	verified := completeUser()
	verified.IsVerified = true
	stripped := verified
	stripped.Profile.City = nil
	// Monotonic: a verified account is never re-checked.
	if MaybeVerify(verified, stripped) {
		t.Fatal("verified account must not re-verify")
	}
}

func TestStepFields(t *testing.T) {
	p := ProfilePatch{City: pstr("Pune")}
	if !p.HasAny(StepFields(StepLocation)) {
		t.Fatal("city belongs to the location step")
	}
	if p.HasAny(StepFields(StepAffiliation)) {
		t.Fatal("patch has no affiliation fields")
	}
	if got := StepFields(99); got != nil {
		t.Fatalf("unknown step should own no fields, got %v", got)
	}
}

func TestFieldLabel(t *testing.T) {
	if got := FieldLabel("affiliation_type"); got != "Affiliation type" {
		t.Fatalf("FieldLabel = %q", got)
	}
}
