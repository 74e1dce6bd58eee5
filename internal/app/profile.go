package app

import (
	"context"
	"strings"

	"campusnest/internal/domain"
)

// ProfileService drives the multi-step profile flow and the one-way
// verification transition.
type ProfileService struct {
	users domain.UserRepository
}

func NewProfileService(users domain.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// ProfileUpdate is one submission of the multi-step form. Step identifies
// which subset the caller claims to be filling; FinalSubmit widens
// validation to the whole recognized field set.
type ProfileUpdate struct {
	Patch       domain.ProfilePatch
	Step        int
	FinalSubmit bool
}

// UpdateProfile merges the patch onto the persisted state, validates it,
// persists the merged state and flips the verification flag when a final
// submit completes the profile. It reports whether the flag flipped in this
// call. Re-submitting already-complete data is a no-op on the flag.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (domain.User, bool, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, false, err
	}

	// A non-final step submission must actually carry fields of its step,
	// otherwise an accidental empty form would look like a success.
	if !upd.FinalSubmit && upd.Step != 0 {
		if !upd.Patch.HasAny(domain.StepFields(upd.Step)) {
			return domain.User{}, false, domain.Invalid("step", "Please fill all required fields for this step")
		}
	}

	if err := validatePatch(upd.Patch); err != nil {
		return domain.User{}, false, err
	}

	merged := domain.MergeProfile(u, upd.Patch)

	if upd.FinalSubmit {
		if field, missing := domain.FirstMissingField(merged); missing {
			return domain.User{}, false, domain.Invalid(field, domain.FieldLabel(field)+" is required")
		}
	}

	if err := s.users.SaveProfile(ctx, merged); err != nil {
		return domain.User{}, false, err
	}

	// Verification only flips on the terminal submission, exactly once.
	verifiedNow := false
	if upd.FinalSubmit && domain.MaybeVerify(u, merged) {
		if err := s.users.SetVerified(ctx, u.ID); err != nil {
			return domain.User{}, false, err
		}
		merged.IsVerified = true
		verifiedNow = true
	}
	return merged, verifiedNow, nil
}

// validatePatch checks only the fields present in this submission.
func validatePatch(p domain.ProfilePatch) error {
	if p.FullName != nil && strings.TrimSpace(*p.FullName) == "" {
		return domain.Invalid("full_name", "Full name can't be empty")
	}
	if p.Phone != nil {
		if err := validatePhone(*p.Phone); err != nil {
			return err
		}
	}
	if p.Gender != nil && !oneOf(*p.Gender, domain.Genders) {
		return domain.Invalid("gender", "Invalid gender. Choose from: male, female, other")
	}
	if p.SharingPreference != nil && !oneOf(*p.SharingPreference, domain.SharingPreferences) {
		return domain.Invalid("sharing_preference", "Invalid sharing preference. Choose from: private, shared, any")
	}
	if p.Budget != nil && *p.Budget < 0 {
		return domain.Invalid("budget", "Budget cannot be negative")
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
