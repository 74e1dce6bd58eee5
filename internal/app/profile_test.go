package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusnest/internal/app"
	"campusnest/internal/domain"
)

func newProfileFixture(t *testing.T) (*app.ProfileService, *memUsers, int64) {
	t.Helper()
	users := newMemUsers()
	u := domain.User{FullName: "Asha Verma", Email: "asha@example.com", Role: domain.RoleUser, Phone: "9876543210"}
	require.NoError(t, users.CreateUser(context.Background(), &u))
	return app.NewProfileService(users), users, u.ID
}

// completePatch fills every field that completeness checks, leaving
// profile_image and preferred_locations out on purpose.
func completePatch() domain.ProfilePatch {
	dob := time.Date(2002, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.ProfilePatch{
		FullName:            ptr("Asha Verma"),
		Phone:               ptr("9876543210"),
		DOB:                 &dob,
		Gender:              ptr("female"),
		City:                ptr("Pune"),
		District:            ptr("Pune"),
		State:               ptr("Maharashtra"),
		Pincode:             ptr("411001"),
		AffiliationType:     ptr("college"),
		AffiliationName:     ptr("COEP"),
		PreferredCity:       ptr("Pune"),
		PreferredDistrict:   ptr("Pune"),
		PreferredState:      ptr("Maharashtra"),
		PreferredPincode:    ptr("411005"),
		PreferredCategories: []string{"pg", "hostel"},
		PreferredAmenities:  []string{"WiFi"},
		Budget:              ptr(8000),
		SharingPreference:   ptr("shared"),
	}
}

func TestUpdateProfile_StepSavesPartialState(t *testing.T) {
	svc, users, id := newProfileFixture(t)

	u, verified, err := svc.UpdateProfile(context.Background(), id, app.ProfileUpdate{
		Step:  domain.StepLocation,
		Patch: domain.ProfilePatch{City: ptr("Pune"), State: ptr("Maharashtra")},
	})
	require.NoError(t, err)
	assert.False(t, verified)
	assert.Equal(t, "Pune", *u.Profile.City)

	stored, err := users.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Maharashtra", *stored.Profile.State)
	assert.False(t, stored.IsVerified)
}

func TestUpdateProfile_EmptyStepRejected(t *testing.T) {
	svc, _, id := newProfileFixture(t)

	_, _, err := svc.UpdateProfile(context.Background(), id, app.ProfileUpdate{
		Step:  domain.StepAffiliation,
		Patch: domain.ProfilePatch{City: ptr("Pune")}, // wrong step's field
	})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateProfile_InvalidFieldValues(t *testing.T) {
	svc, _, id := newProfileFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		patch domain.ProfilePatch
	}{
		{"blank full name", domain.ProfilePatch{FullName: ptr("  ")}},
		{"short phone", domain.ProfilePatch{Phone: ptr("12345")}},
		{"letters in phone", domain.ProfilePatch{Phone: ptr("98765abc10")}},
		{"unknown gender", domain.ProfilePatch{Gender: ptr("unknown")}},
		{"negative budget", domain.ProfilePatch{Budget: ptr(-1)}},
		{"bad sharing preference", domain.ProfilePatch{SharingPreference: ptr("solo")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.UpdateProfile(ctx, id, app.ProfileUpdate{Step: domain.StepPersonal, Patch: tc.patch, FinalSubmit: true})
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestUpdateProfile_FinalSubmitReportsFirstMissingField(t *testing.T) {
	svc, _, id := newProfileFixture(t)

	patch := completePatch()
	patch.DOB = nil

	_, _, err := svc.UpdateProfile(context.Background(), id, app.ProfileUpdate{Patch: patch, FinalSubmit: true})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "dob", ve.Field)
	assert.Equal(t, "Dob is required", ve.Message)
}

func TestUpdateProfile_FinalSubmitVerifiesOnce(t *testing.T) {
	svc, users, id := newProfileFixture(t)
	ctx := context.Background()

	u, verified, err := svc.UpdateProfile(ctx, id, app.ProfileUpdate{Patch: completePatch(), FinalSubmit: true})
	require.NoError(t, err)
	assert.True(t, verified)
	assert.True(t, u.IsVerified)
	assert.Equal(t, 1, users.verifyCalls)

	// Re-submitting complete data reports no new transition.
	_, verified, err = svc.UpdateProfile(ctx, id, app.ProfileUpdate{Patch: completePatch(), FinalSubmit: true})
	require.NoError(t, err)
	assert.False(t, verified)
	assert.Equal(t, 1, users.verifyCalls)
}

func TestUpdateProfile_CompleteAcrossSteps(t *testing.T) {
	svc, users, id := newProfileFixture(t)
	ctx := context.Background()

	full := completePatch()
	steps := []struct {
		step  int
		patch domain.ProfilePatch
	}{
		{domain.StepPersonal, domain.ProfilePatch{FullName: full.FullName, Phone: full.Phone, DOB: full.DOB, Gender: full.Gender}},
		{domain.StepLocation, domain.ProfilePatch{City: full.City, District: full.District, State: full.State, Pincode: full.Pincode}},
		{domain.StepAffiliation, domain.ProfilePatch{AffiliationType: full.AffiliationType, AffiliationName: full.AffiliationName}},
	}
	for _, st := range steps {
		_, verified, err := svc.UpdateProfile(ctx, id, app.ProfileUpdate{Step: st.step, Patch: st.patch})
		require.NoError(t, err)
		assert.False(t, verified)
	}

	// The last step arrives as the final submit and completes the profile.
	last := domain.ProfilePatch{
		PreferredCity: full.PreferredCity, PreferredDistrict: full.PreferredDistrict,
		PreferredState: full.PreferredState, PreferredPincode: full.PreferredPincode,
		PreferredCategories: full.PreferredCategories, PreferredAmenities: full.PreferredAmenities,
		Budget: full.Budget, SharingPreference: full.SharingPreference,
	}
	u, verified, err := svc.UpdateProfile(ctx, id, app.ProfileUpdate{Step: domain.StepPreferences, Patch: last, FinalSubmit: true})
	require.NoError(t, err)
	assert.True(t, verified)
	assert.True(t, u.IsVerified)

	stored, err := users.GetUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
}

func TestUpdateProfile_EmptyPreferenceListCountsAsFilled(t *testing.T) {
	svc, _, id := newProfileFixture(t)

	patch := completePatch()
	patch.PreferredAmenities = []string{}

	_, verified, err := svc.UpdateProfile(context.Background(), id, app.ProfileUpdate{Patch: patch, FinalSubmit: true})
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc, _, _ := newProfileFixture(t)

	_, _, err := svc.UpdateProfile(context.Background(), 999, app.ProfileUpdate{Patch: completePatch()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
